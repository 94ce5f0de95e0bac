package main

import (
	"os"

	"github.com/finops-tools/azure-cost-alerts-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
