package main

import (
	"os"

	"marathon-scraper/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
