package main

import (
	"os"

	"github.com/wonny/creditwatch/backend/cmd/creditwatch/commands"
)

// main is the entry point for the creditwatch CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/creditwatch [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
