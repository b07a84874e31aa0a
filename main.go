package main

import "github.com/naka-gawa/github-langs/cmd"

func main() {
	cmd.Execute()
}
