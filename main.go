package main

import "github.com/naka-gawa/claudeup/cmd"

func main() {
	cmd.Execute()
}
