package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/titanlang/titanc/cmd/titanc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// Compile diagnostics were already printed in wire format; only
		// usage-level errors from the command line itself need a message.
		if !errors.Is(err, cmd.ErrCompileFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
