package main

import (
	"os"

	"github.com/joy-dx/banknet/cmd/banknet/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
