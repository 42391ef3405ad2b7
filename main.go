package main

import "github.com/gnames/gnvariants/cmd"

func main() {
	cmd.Execute()
}
