// main is the entry point for the commitscore CLI.
package main

import (
	"github.com/huangsam/commitscore/cmd"
	"github.com/huangsam/commitscore/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
