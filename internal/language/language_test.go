package language

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtension(t *testing.T) {
	testCases := []struct {
		path     string
		expected string
	}{
		{path: "repo-abc/main.go", expected: ".go"},
		{path: "repo-abc/src/Widget.CPP", expected: ".cpp"},
		{path: "repo-abc/archive.tar.gz", expected: ".gz"},
		{path: "repo-abc/.bashrc", expected: ""},
		{path: "repo-abc/..hidden.sh", expected: ".sh"},
		{path: "repo-abc/Makefile", expected: ""},
		{path: "repo-abc/dir.d/file", expected: ""},
		{path: "", expected: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, Extension(tc.path))
		})
	}
}

func TestHeaderRule_Resolve(t *testing.T) {
	rule := DefaultHeaderRule()
	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "class keyword selects C++", text: "class Widget {\n};\n", expected: "C++"},
		{name: "template marker selects C++", text: "template<typename T> T max(T a, T b);", expected: "C++"},
		{name: "access specifier selects C++", text: "struct s {\npublic:\n int x;\n};", expected: "C++"},
		{name: "namespace selects C++", text: "namespace app {}", expected: "C++"},
		{name: "iostream include selects C++", text: "#include <iostream>", expected: "C++"},
		{name: "plain C header", text: "#ifndef UTIL_H\n#define UTIL_H\nint add(int a, int b);\n#endif\n", expected: "C"},
		{name: "empty header", text: "", expected: "C"},
		{name: "markers are case sensitive", text: "CLASS Widget", expected: "C"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, rule.Resolve(tc.text))
		})
	}
}

func TestClassifier(t *testing.T) {
	c := NewClassifier(Table{".GO": "Go", ".py": "Python"}, DefaultHeaderRule())

	assert.True(t, c.Recognizes(".go"))
	assert.True(t, c.Recognizes(".h"))
	assert.False(t, c.Recognizes(".md"))
	assert.False(t, c.Recognizes(""))

	label, ok := c.Classify(".go", "package main")
	assert.True(t, ok)
	assert.Equal(t, "Go", label)

	label, ok = c.Classify(".h", "class A {};")
	assert.True(t, ok)
	assert.Equal(t, "C++", label)

	_, ok = c.Classify(".md", "# readme")
	assert.False(t, ok)
}

func TestClassifier_NoHeaderRule(t *testing.T) {
	c := NewClassifier(DefaultTable(), HeaderRule{})
	assert.False(t, c.Recognizes(".h"))
	assert.False(t, c.Recognizes(""))
}

func TestCountLines(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected int
	}{
		{name: "empty", text: "", expected: 0},
		{name: "single line without newline", text: "package main", expected: 1},
		{name: "blank lines are skipped", text: "a\n\n  \n\tb\n", expected: 2},
		{name: "windows line endings", text: "a\r\nb\r\n\r\nc", expected: 3},
		{name: "old mac line endings", text: "a\rb\r", expected: 2},
		{name: "unicode separators", text: "a\u2028b\u2029c\u0085d", expected: 4},
		{name: "whitespace only", text: " \t \n \n", expected: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CountLines(tc.text))
		})
	}
}

func TestCountLines_FortyLinesFiveBlank(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		if i%8 == 0 {
			b.WriteString("   \n")
			continue
		}
		b.WriteString("x := 1\n")
	}
	assert.Equal(t, 35, CountLines(b.String()))
}

func TestDecode_DropsInvalidBytes(t *testing.T) {
	text := Decode([]byte{'a', 0xff, 'b', '\n', 0xc3, 'c'})
	assert.Equal(t, "ab\nc", text)
	assert.Equal(t, 2, CountLines(text))
}
