package burn

import (
	"context"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Algorithm names the digest used to verify a burn. Both produce 32 bytes.
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"
)

// ParseAlgorithm accepts "sha256", "blake3" or "" (SHA-256).
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(s); a {
	case "", SHA256:
		return SHA256, nil
	case BLAKE3:
		return a, nil
	default:
		return "", fmt.Errorf("unknown digest algorithm %q", s)
	}
}

// New returns a fresh hasher for a.
func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case "", SHA256:
		return sha256.New(), nil
	case BLAKE3:
		return blake3.New(), nil
	default:
		return nil, fmt.Errorf("unknown digest algorithm %q", string(a))
	}
}

func (a Algorithm) String() string {
	if a == "" {
		return string(SHA256)
	}
	return string(a)
}

// HashDevice hashes the first n bytes of path, reading chunk bytes at a time.
// It is used after a burn to compare what the device holds with the digest
// reported on End.
func HashDevice(ctx context.Context, path string, n int64, alg Algorithm, chunk int) ([]byte, error) {
	h, err := alg.New()
	if err != nil {
		return nil, err
	}
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, chunk)
	remaining := n
	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		want := int64(len(buf))
		if remaining < want {
			want = remaining
		}
		read, err := io.ReadFull(f, buf[:want])
		h.Write(buf[:read])
		remaining -= int64(read)
		if err != nil {
			return nil, fmt.Errorf("read %s after %d bytes: %w", path, n-remaining, err)
		}
	}

	return h.Sum(nil), nil
}
