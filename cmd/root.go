package cmd

import (
	"fmt"
	"os"

	"datajoin/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "datajoin",
	Short: "Keyed data joins against stored scenes",
	Long: `datajoin binds datasets to retained element trees by key.
Entering items create elements, updating items keep theirs, and exiting
elements are removed. Scenes are stored in MySQL or SQLite and exported to S3.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Debug level selects the development config, which prints readable timestamps
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
