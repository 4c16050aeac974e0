package main

import (
	"errors"
	"os"

	"github.com/ColeMorton/sensylate-sub000/cmd/sensylate/commands"
)

// main is the entry point for the Sensylate quality CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/sensylate [command]
//
// Exit codes: 0 success, 1 quality checks failed, 2 execution error.
func main() {
	err := commands.Execute()
	if err == nil {
		return
	}
	if errors.Is(err, commands.ErrQualityCheckFailed) {
		os.Exit(1)
	}
	os.Exit(2)
}
