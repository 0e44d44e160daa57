// Package cmd implements the CLI commands for dwin-go.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"dwin-go/config"
	"dwin-go/logging"
	"dwin-go/manager"
)

// Version information set at build time
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// Global flags
var (
	globalConfig    string
	globalStateDir  string
	globalLog       string
	globalLogFormat string
	globalDebug     bool
)

// rootCmd is the base command for dwin-go.
var rootCmd = &cobra.Command{
	Use:   "dwin-go",
	Short: "dwindle tiling window manager",
	Long: `dwin-go is a tiling window manager core.

Apps are organized into five buffers (workspaces); within a buffer,
tiled windows are laid out by recursive dwindle splits and floating
windows are placed by snap regions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup logging
		setupLogging()
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetContext returns a context that cancels on SIGINT/SIGTERM.
func GetContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	if globalConfig != "" {
		return globalConfig
	}
	return config.DefaultPath()
}

// GetStatePath returns the snapshot file path.
func GetStatePath() string {
	dir := globalStateDir
	if dir == "" {
		dir = manager.DefaultStateDir()
	}
	return filepath.Join(dir, manager.StateFileName)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&globalConfig, "config", "", "config file path (default: ~/.config/dwin-go/config.lua)")
	rootCmd.PersistentFlags().StringVar(&globalStateDir, "root", "", "directory for manager state (default: ~/.local/state/dwin-go)")
	rootCmd.PersistentFlags().StringVar(&globalLog, "log", "", "set the log file path")
	rootCmd.PersistentFlags().StringVar(&globalLogFormat, "log-format", "text", "set the format for log output (text or json)")
	rootCmd.PersistentFlags().BoolVar(&globalDebug, "debug", false, "enable debug logging and invariant checks")
}

func setupLogging() {
	var logOutput = os.Stderr
	if globalLog != "" {
		f, err := os.OpenFile(globalLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err == nil {
			logOutput = f
		}
	}

	logLevel := slog.LevelInfo
	if globalDebug {
		logLevel = slog.LevelDebug
	}

	if globalLogFormat == "json" || globalLog != "" || globalDebug {
		logger := logging.NewLogger(logging.Config{
			Level:  logLevel,
			Format: globalLogFormat,
			Output: logOutput,
		})
		logging.SetDefault(logger)
	}
}
