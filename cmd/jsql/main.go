package main

import (
	"os"

	"jsql/cmd/jsql/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
