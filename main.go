package main

import (
	"os"

	"github.com/marcosUNLP/qonscious/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
