package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Card geometry.
const (
	Width  = 450
	Height = 220
)

const cardCSS = `
        :root {
            --bg-color: #fff;
            --border-color: #e1e4e8;
            --header-color: #006AFF;
            --lang-color: #24292e;
            --percent-color: #586069;
            --bar-bg: #e1e4e8;
        }

        @media (prefers-color-scheme: dark) {
            :root {
                --bg-color: #0d1117;
                --border-color: #30363d;
                --header-color: #58a6ff;
                --lang-color: #c9d1d9;
                --percent-color: #8b949e;
                --bar-bg: #21262d;
            }
        }

        svg { font-family: -apple-system, BlinkMacSystemFont, Segoe UI, Helvetica, Arial; font-size: 14px; }
        h2 { font-size:16px; font-weight:600; color: var(--header-color); margin:0 0 0.75em 0; }

        .card {
            padding: 20px;
            border: 1px solid var(--border-color);
            border-radius: 10px;
            background: var(--bg-color);
        }

        .progress { display:flex; height:10px; overflow:hidden; background-color: var(--bar-bg); border-radius:6px; margin-bottom:1.5em; }

        @keyframes progressGrow { from { width:0; } to { width:var(--final-width); } }

        .progress-item {
            width:0;
            background-color:var(--color);
            animation:progressGrow 2s cubic-bezier(.33,1.53,.53,1.01) forwards;
            animation-delay:var(--delay);
        }

        ul { list-style:none; padding:0; margin:0; display:flex; flex-wrap:wrap; }
        li { display:flex; align-items:center; font-size:12px; margin-bottom:8px; color: var(--lang-color); }

        .lang { font-weight:600; margin-right:4px; margin-left:4px; color: var(--lang-color); }
        .percent { color: var(--percent-color); }
`

const dotPath = "M8 4a4 4 0 100 8 4 4 0 000-8z"

type Option func(*Renderer)

func WithTitle(title string) Option { return func(r *Renderer) { r.title = title } }

// Renderer produces the language card document.
type Renderer struct {
	title string
}

// New creates a Renderer with the default title.
func New(opts ...Option) *Renderer {
	r := &Renderer{title: "language used"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderSVG returns the card for items. An empty slice renders an empty bar
// and legend.
func (r *Renderer) RenderSVG(items []Item) []byte {
	var bar, legend bytes.Buffer
	for _, it := range items {
		fmt.Fprintf(&bar, `<span class="progress-item" style="--final-width:%s%%; --color:%s; --delay:%.2fs;"></span>`,
			formatFloat(it.Percent), escapeXML(it.Color), it.Delay)
		fmt.Fprintf(&legend, `
        <li style="--li-delay:%.2fs; width: 33%%;">
          <svg xmlns="http://www.w3.org/2000/svg" class="octicon" style="fill:%s;" viewBox="0 0 16 16" width="16" height="16">
            <path fill-rule="evenodd" d="%s"></path>
          </svg>
          <span class="lang">%s</span>
          <span class="percent">%.1f%%</span>
        </li>`, it.Delay, escapeXML(it.Color), dotPath, escapeXML(it.Language), it.Percent)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+"\n", Width, Height)
	fmt.Fprintf(&buf, "    <style>%s    </style>\n", cardCSS)
	fmt.Fprintf(&buf, `    <foreignObject x="0" y="0" width="%d" height="%d">`+"\n", Width, Height)
	buf.WriteString(`        <div xmlns="http://www.w3.org/1999/xhtml" class="card">` + "\n")
	fmt.Fprintf(&buf, "            <h2>%s</h2>\n", escapeXML(r.title))
	fmt.Fprintf(&buf, "            <div class=\"progress\">%s</div>\n", bar.String())
	fmt.Fprintf(&buf, "            <ul>%s</ul>\n", legend.String())
	buf.WriteString("        </div>\n")
	buf.WriteString("    </foreignObject>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// WriteFile writes doc to path, creating the parent directory when needed
// and replacing any previous card.
func WriteFile(path string, doc []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("failed to write card: %w", err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
