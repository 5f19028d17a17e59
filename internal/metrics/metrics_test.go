package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fcjr/acetylene/internal/burn"
)

func newTestRecorder(t *testing.T) (*Recorder, *prometheus.Registry, *time.Time) {
	t.Helper()
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r.now = func() time.Time { return clock }
	return r, reg, &clock
}

func TestRecorder_SuccessfulBurn(t *testing.T) {
	r, _, clock := newTestRecorder(t)

	r.Observe(burn.Progress{Kind: burn.KindStart, Total: 100})
	r.Observe(burn.Progress{Kind: burn.KindProgress, Count: 40, Total: 100})
	assert.InDelta(t, 0.4, testutil.ToFloat64(r.ratio), 1e-9)

	r.Observe(burn.Progress{Kind: burn.KindProgress, Count: 100, Total: 100})
	*clock = clock.Add(30 * time.Second)
	r.Observe(burn.Progress{Kind: burn.KindEnd})

	assert.Equal(t, 100.0, testutil.ToFloat64(r.bytesWritten))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.burns.WithLabelValues("ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.burns.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ratio))
	assert.Equal(t, 1, testutil.CollectAndCount(r.duration))
}

func TestRecorder_FailedBurn(t *testing.T) {
	r, _, _ := newTestRecorder(t)

	r.Observe(burn.Progress{Kind: burn.KindStart, Total: 100})
	r.Observe(burn.Progress{Kind: burn.KindProgress, Count: 32, Total: 100})
	r.Observe(burn.Progress{Kind: burn.KindError, Err: &burn.Error{Op: burn.OpWrite, Err: errors.New("gone")}})

	assert.Equal(t, 32.0, testutil.ToFloat64(r.bytesWritten))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.burns.WithLabelValues("error")))
}

func TestRecorder_ErrorBeforeStart(t *testing.T) {
	r, _, _ := newTestRecorder(t)

	r.Observe(burn.Progress{Kind: burn.KindError, Err: &burn.Error{Op: burn.OpStat}})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.burns.WithLabelValues("error")))
	assert.Equal(t, 0, testutil.CollectAndCount(r.duration))
}

func TestNewRecorder_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)

	_, err = NewRecorder(reg)
	assert.ErrorContains(t, err, "register burn collector")
}

func TestWriteTextfile(t *testing.T) {
	r, reg, _ := newTestRecorder(t)
	r.Observe(burn.Progress{Kind: burn.KindStart, Total: 10})
	r.Observe(burn.Progress{Kind: burn.KindProgress, Count: 10, Total: 10})
	r.Observe(burn.Progress{Kind: burn.KindEnd})

	path := filepath.Join(t.TempDir(), "acetylene.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "acetylene_bytes_written_total 10"))
}
