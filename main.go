package main

import (
	"os"

	"github.com/piepengu/satmath/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
