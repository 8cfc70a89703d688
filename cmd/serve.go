package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hamlab-sdr-bridge/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the control plane",
	Long: `
Discover the hardware and serve rigctld, CAT and the state feed until
interrupted.

Examples:
  sdr-bridge serve                          # defaults: rigctld on localhost:4532
  sdr-bridge serve -c sdr.yml               # settings from sdr.yml
  SDRCTL_CAT_ENABLED=true sdr-bridge serve  # add the CAT pty from the environment
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()
		if name := a.CATName(); name != "" {
			log.Infof("CAT port: %s", name)
		}
		return a.Run(ctx)
	},
}
