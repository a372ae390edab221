package main

import (
	"github.com/Dr-Moreb/biotite/internal/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
