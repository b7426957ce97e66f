package main

import (
	"os"

	steercmder "github.com/promptsteer/steer/cmd/steer"
)

func main() {
	cmd := steercmder.NewSteerCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
