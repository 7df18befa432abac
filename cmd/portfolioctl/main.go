package main

import (
	"os"

	"github.com/2beens/portfolio/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
