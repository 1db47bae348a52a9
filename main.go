package main

import (
	"os"

	"github.com/aroldanm/mkdw-demo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
