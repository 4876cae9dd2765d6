package main

import (
	"os"

	"kalushael-go/cmd/kalushael/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
