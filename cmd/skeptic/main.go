package main

import (
	"os"

	"github.com/fjglira/GoSkeptic/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
