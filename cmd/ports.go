package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"hamlab-sdr-bridge/internal/cat"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial devices usable as cat.device",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := cat.ListPorts()
		for _, p := range ports {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		if len(ports) == 0 && err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "no serial ports found")
		}
		return err
	},
}
