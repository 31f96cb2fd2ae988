// Command triage is the helpdesk ticket triage pipeline CLI.
package main

import (
	"os"

	"github.com/akash-d122/helpdesk-triage/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
