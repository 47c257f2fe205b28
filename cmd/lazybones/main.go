package main

import (
	"os"

	"github.com/krew-solutions/lazybones-go/cmd/lazybones/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
