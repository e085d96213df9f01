package main

import (
	"os"

	"github.com/TrevorS/treecluster/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
