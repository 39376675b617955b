package main

import (
	"os"

	"github.com/packsmith/packsmith/cmd/packsmith"
	"github.com/packsmith/packsmith/cmd/packsmith/internal/app"
)

func main() {
	rootCmd := packsmith.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		app.PrintError(err)
		os.Exit(1)
	}
}
