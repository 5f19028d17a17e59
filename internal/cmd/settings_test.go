package cmd

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fcjr/acetylene/internal/config"
)

func TestSettings_FileValues(t *testing.T) {
	cfg := config.Default()
	cfg.Digest = "blake3"
	cfg.Passthrough = []string{"/tmp/plop.img"}

	s := settingsFrom(newViper(cfg))
	assert.Equal(t, "blake3", s.Digest)
	assert.True(t, s.Verify)
	assert.Equal(t, []string{"/tmp/plop.img"}, s.Passthrough)
	assert.Equal(t, "info", s.Log.Level)
	assert.False(t, s.Force)
}

func TestSettings_EnvOverridesFile(t *testing.T) {
	t.Setenv("ACETYLENE_DIGEST", "blake3")
	t.Setenv("ACETYLENE_CHUNK_SIZE", "1024")
	t.Setenv("ACETYLENE_VERIFY", "false")

	s := settingsFrom(newViper(config.Default()))
	assert.Equal(t, "blake3", s.Digest)
	assert.Equal(t, 1024, s.ChunkSize)
	assert.False(t, s.Verify)
}

func TestSettings_ChangedFlagWins(t *testing.T) {
	t.Setenv("ACETYLENE_VERIFY", "true")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("verify", true, "")
	flags.String("digest", "sha256", "")
	require.NoError(t, flags.Parse([]string{"--verify=false"}))

	cfg := config.Default()
	cfg.Digest = "blake3"
	v := newViper(cfg)
	require.NoError(t, v.BindPFlags(flags))

	s := settingsFrom(v)
	assert.False(t, s.Verify)
	// An untouched flag does not mask the file value.
	assert.Equal(t, "blake3", s.Digest)
}
