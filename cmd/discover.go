package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"hamlab-sdr-bridge/internal/config"
	"hamlab-sdr-bridge/internal/hermes"
	clog "hamlab-sdr-bridge/internal/log"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find a Hermes/Metis unit and print its identity",
	Long: `
Broadcast the discovery request and print the first matching reply.

Examples:
  sdr-bridge discover                               # 255.255.255.255:1024
  sdr-bridge discover --broadcast 192.168.2.255
  sdr-bridge discover --ip 192.168.2.196            # also assign a new address
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			exitWithError("failed to load config", err)
		}
		applyDiscoverFlags(cmd.Flags(), &cfg.Hardware)
		log, err := newLogger(cfg)
		if err != nil {
			exitWithError("failed to create logger", err)
		}

		hw := cfg.Hardware
		timeout := time.Duration(hw.Attempts)*2*hw.Delay + time.Second
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := hermes.Discover(ctx, hermes.DiscoverOptions{
			BroadcastAddr: hw.BroadcastAddr,
			Port:          hw.Port,
			Attempts:      hw.Attempts,
			Delay:         hw.Delay,
			CodeVersion:   hw.CodeVersion,
			BoardID:       hw.BoardID,
			TargetIP:      hw.IP,
		}, clog.Component(log, "hermes"))
		if err != nil {
			exitWithError("discovery failed", err)
		}
		fmt.Println(resp)
	},
}

func init() {
	f := discoverCmd.Flags()
	f.String("broadcast", "", "broadcast address (default from config)")
	f.Int("port", 0, "discovery port (default from config)")
	f.Int("attempts", 0, "discovery attempts (default from config)")
	f.String("ip", "", "assign this IPv4 address to the unit")
	f.Int("board-id", -1, "accept only this board ID")
}

// applyDiscoverFlags overrides hardware settings with flags the user set.
func applyDiscoverFlags(f *pflag.FlagSet, hw *config.HardwareConfig) {
	if f.Changed("broadcast") {
		hw.BroadcastAddr, _ = f.GetString("broadcast")
	}
	if f.Changed("port") {
		hw.Port, _ = f.GetInt("port")
	}
	if f.Changed("attempts") {
		hw.Attempts, _ = f.GetInt("attempts")
	}
	if f.Changed("ip") {
		hw.IP, _ = f.GetString("ip")
	}
	if f.Changed("board-id") {
		hw.BoardID, _ = f.GetInt("board-id")
	}
}
