package cmd

import (
	"fmt"
	"os"

	"contest-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "contest-sync",
	Short: "Contest Sync Service",
	Long: `Contest Sync keeps a local calendar of programming contests in step with
Codeforces, CodeChef and other providers, and serves it over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fatal(err.Error(), "command failed", zap.Error(err))
	}
}

// Recover turns a panic of the calling goroutine into a logged exit(1).
// It must be deferred.
func Recover() {
	if r := recover(); r != nil {
		fatal(fmt.Sprint(r), "command panicked", zap.Any("panic", r), zap.Stack("stack"))
	}
}

// fatal logs with the console logger and exits with status 1.
// fallback is printed when the logger cannot be built.
func fatal(fallback, msg string, fields ...zap.Field) {
	// Development config gives ISO8601 timestamps for CLI output
	l, err := logger.New(&logger.Config{
		Level:  "debug",
		Format: "console",
	})
	if err != nil {
		fmt.Println(fallback)
		os.Exit(1)
	}

	l.Error(msg, fields...)
	_ = l.Sync()
	os.Exit(1)
}
