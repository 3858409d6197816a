package main

import (
	"os"

	"github.com/b-harvest/agentboard-backend/cmd/agentboard/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
