package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fcjr/acetylene/internal/version"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:               "acetylene",
	Short:             "acetylene writes disk images to SD cards and USB sticks",
	Version:           version.Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

func init() {
	rootCmd.SetVersionTemplate(version.String())

	// Root Flags
	rootCmd.Flags().BoolP("version", "v", false, "Get the version of acetylene") // overrides default msg

	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/acetylene/acetylene.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable development logging")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("by-id-dir", "", "Directory of stable device links to scan (Linux)")
	rootCmd.PersistentFlags().Uint64("max-device-size", 0, "Hide devices larger than this many bytes (0 = no limit)")
}
