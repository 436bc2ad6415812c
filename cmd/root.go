package cmd

import (
	"fmt"
	"os"

	"content-transfer/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "content-transfer",
	Short: "Content Transfer Service",
	Long: `Content Transfer reconciles batches of transfer objects against a
content repository. Batches arrive over HTTP, from local files or from an
S3-compatible bucket, and each one is applied in a single transaction.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with a debug-level config so a CLI user gets
		// readable ISO8601 timestamps instead of epoch seconds.
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
