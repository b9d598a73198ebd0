package cmd

import (
	"fmt"
	"os"

	"clinic-desk/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "clinic-desk",
	Short: "Clinic front-desk service",
	Long: `clinic-desk keeps the waiting list and the treatment log of a clinic in step.
It serves the front-desk HTTP API and offers command-line fallbacks for check-in,
person codes and cross-store reconciliation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding at debug level gives readable ISO8601 timestamps on a terminal.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
