package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fcjr/acetylene/internal/config"
	"github.com/fcjr/acetylene/internal/logging"
)

type settings struct {
	config.Config
	Force bool
	Debug bool
}

// app is populated by setup before any subcommand runs.
var app struct {
	settings settings
	logger   *zap.Logger
}

func setup(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return fmt.Errorf("failed to locate config folder: %w", err)
		}
	}

	fileCfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	v := newViper(fileCfg)
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	app.settings = settingsFrom(v)

	logger, err := logging.New(app.settings.Log.Level, app.settings.Debug)
	if err != nil {
		return err
	}
	app.logger = logger
	app.logger.Debug("configuration loaded", zap.String("path", path))
	return nil
}

func teardown(*cobra.Command, []string) {
	if app.logger != nil {
		_ = app.logger.Sync()
	}
}

// newViper layers ACETYLENE_* environment variables over the config file.
// Flags bound afterwards take precedence over both when set.
func newViper(cfg config.Config) *viper.Viper {
	v := viper.New()
	v.SetDefault("verify", cfg.Verify)
	v.SetDefault("digest", cfg.Digest)
	v.SetDefault("chunk-size", cfg.ChunkSize)
	v.SetDefault("by-id-dir", cfg.ByIDDir)
	v.SetDefault("passthrough", cfg.Passthrough)
	v.SetDefault("max-device-size", cfg.MaxDeviceSize)
	v.SetDefault("metrics-textfile", cfg.MetricsTextfile)
	v.SetDefault("log-level", cfg.Log.Level)
	v.SetDefault("force", false)
	v.SetDefault("debug", false)

	v.SetEnvPrefix("ACETYLENE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func settingsFrom(v *viper.Viper) settings {
	return settings{
		Config: config.Config{
			Verify:          v.GetBool("verify"),
			Digest:          v.GetString("digest"),
			ChunkSize:       v.GetInt("chunk-size"),
			ByIDDir:         v.GetString("by-id-dir"),
			Passthrough:     v.GetStringSlice("passthrough"),
			MaxDeviceSize:   v.GetUint64("max-device-size"),
			MetricsTextfile: v.GetString("metrics-textfile"),
			Log:             config.LogConfig{Level: v.GetString("log-level")},
		},
		Force: v.GetBool("force"),
		Debug: v.GetBool("debug"),
	}
}
