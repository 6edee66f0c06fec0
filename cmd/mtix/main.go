package main

import (
	"os"

	"github.com/msto63/mTix/cmd/mtix/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
