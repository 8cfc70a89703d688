// Command sdr-bridge is the control plane for Hermes/Metis SDR hardware.
package main

import (
	"fmt"
	"os"

	"hamlab-sdr-bridge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
