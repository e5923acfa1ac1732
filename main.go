// main is the entry point for the devpulse CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/devpulse/cmd"
	"github.com/huangsam/devpulse/internal/iostore"
)

func main() {
	// Commands resolve their stores through this seam so tests can swap
	// the manager for a mock.
	cmd.SetStoreManager(iostore.Manager)

	err := cmd.Execute()

	// Flush persistence and profiling before deciding the exit code.
	iostore.CloseStores()
	if perr := cmd.StopProfiling(); perr != nil {
		fmt.Println("⚠️  Warning: could not stop profiling:", perr)
	}

	if err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}
