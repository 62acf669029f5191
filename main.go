package main

import "github.com/xvierd/focusguard/cmd"

func main() {
	cmd.Execute()
}
