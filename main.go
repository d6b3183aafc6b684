package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/ollama/devicemgr/cmd"
	"github.com/ollama/devicemgr/version"
)

func main() {
	if err := fang.Execute(context.Background(), cmd.NewCLI(), fang.WithVersion(version.Version)); err != nil {
		os.Exit(1)
	}
}
