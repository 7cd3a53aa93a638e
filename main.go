package main

import "github.com/apiforge/certpack/cmd"

func main() {
	cmd.Execute()
}
