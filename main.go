package main

import (
	"github.com/astrolabe-cli/astrolabe/cmd"
)

func main() {
	cmd.Execute()
}
