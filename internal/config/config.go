// Package config locates and loads the acetylene configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/fcjr/acetylene/internal/burn"
	"github.com/fcjr/acetylene/internal/device"
)

// FileName is the config file looked up inside Folder.
const FileName = "acetylene.yaml"

type LogConfig struct {
	Level string `yaml:"level"`
}

// Config holds burn defaults. Command-line flags and ACETYLENE_* environment
// variables override these values.
type Config struct {
	Verify    bool   `yaml:"verify"`
	Digest    string `yaml:"digest"`
	ChunkSize int    `yaml:"chunk_size"`
	ByIDDir   string `yaml:"by_id_dir"`
	// Passthrough paths are burned to without being enumerated, e.g. loopback images.
	Passthrough []string `yaml:"passthrough"`
	// MaxDeviceSize hides larger devices from selection. Zero disables the check.
	MaxDeviceSize   uint64    `yaml:"max_device_size"`
	MetricsTextfile string    `yaml:"metrics_textfile"`
	Log             LogConfig `yaml:"log"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Verify:    true,
		Digest:    burn.SHA256.String(),
		ChunkSize: burn.DefaultChunkSize,
		ByIDDir:   device.DefaultByIDDir,
		Log:       LogConfig{Level: "info"},
	}
}

func Folder() (string, error) {
	var configPath string
	switch runtime.GOOS {
	case "windows":
		configPath = os.Getenv("APPDATA")
	default:
		configPath = os.Getenv("XDG_CONFIG_HOME")
	}
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configPath = filepath.Join(home, ".config")
	}
	return filepath.Join(configPath, "acetylene"), nil
}

// DefaultPath is Folder joined with FileName.
func DefaultPath() (string, error) {
	folder, err := Folder()
	if err != nil {
		return "", err
	}
	return filepath.Join(folder, FileName), nil
}

// Load reads filename over Default. A missing file yields the defaults.
func Load(filename string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	if cfg.ChunkSize < 0 {
		return cfg, fmt.Errorf("%s: chunk_size must not be negative", filename)
	}
	return cfg, nil
}
