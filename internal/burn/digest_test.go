package burn

import (
	"context"
	"crypto/sha256"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
)

func TestParseAlgorithm(t *testing.T) {
	for in, want := range map[string]Algorithm{"": SHA256, "sha256": SHA256, "blake3": BLAKE3} {
		got, err := ParseAlgorithm(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseAlgorithm("md5")
	assert.ErrorContains(t, err, "unknown digest algorithm")
}

func TestHashDevice(t *testing.T) {
	data := randomBytes(t, 1000)
	path := filepath.Join(t.TempDir(), "device")
	// The device is larger than the image; only the burned prefix is hashed.
	require.NoError(t, os.WriteFile(path, append(data, make([]byte, 500)...), 0644))

	got, err := HashDevice(context.Background(), path, int64(len(data)), SHA256, 64)
	require.NoError(t, err)
	want := sha256.Sum256(data)
	assert.Equal(t, want[:], got)

	got, err = HashDevice(context.Background(), path, int64(len(data)), BLAKE3, 0)
	require.NoError(t, err)
	b3 := blake3.Sum256(data)
	assert.Equal(t, b3[:], got)
}

func TestHashDevice_ShortDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device")
	require.NoError(t, os.WriteFile(path, make([]byte, 10), 0644))

	_, err := HashDevice(context.Background(), path, 20, SHA256, 4)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestHashDevice_MatchesBurnDigest(t *testing.T) {
	data := randomBytes(t, 777)
	device := emptyDevice(t)

	events := runBurn(t, &Engine{ChunkSize: 100}, Config{
		Device:   device,
		Image:    writeImage(t, data),
		Settings: []Setting{Verify},
		Digest:   BLAKE3,
	})
	end := events[len(events)-1]
	require.Equal(t, KindEnd, end.Kind)

	got, err := HashDevice(context.Background(), device, int64(len(data)), BLAKE3, 128)
	require.NoError(t, err)
	assert.Equal(t, end.Digest, got)
}
