// Package metrics exports burn progress as Prometheus collectors.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fcjr/acetylene/internal/burn"
)

// Recorder turns the Progress events of successive burns into metrics.
// Observe must be called from a single goroutine.
type Recorder struct {
	bytesWritten prometheus.Counter
	burns        *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	ratio        prometheus.Gauge

	now     func() time.Time
	started time.Time
	last    int64
}

// NewRecorder registers the collectors against reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "acetylene_bytes_written_total",
			Help: "Image bytes durably written to devices.",
		}),
		burns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acetylene_burns_total",
			Help: "Finished burns partitioned by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "acetylene_burn_duration_seconds",
			Help:    "Wall time from start to the terminal event.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 2400},
		}, []string{"result"}),
		ratio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "acetylene_burn_progress_ratio",
			Help: "Fraction of the current image written.",
		}),
		now: time.Now,
	}
	for _, collector := range []prometheus.Collector{r.bytesWritten, r.burns, r.duration, r.ratio} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register burn collector: %w", err)
		}
	}
	return r, nil
}

// Observe updates the collectors for one event.
func (r *Recorder) Observe(p burn.Progress) {
	switch p.Kind {
	case burn.KindStart:
		r.started = r.now()
		r.last = 0
		r.ratio.Set(0)
		if p.Total == 0 {
			r.ratio.Set(1)
		}
	case burn.KindProgress:
		if delta := p.Count - r.last; delta > 0 {
			r.bytesWritten.Add(float64(delta))
		}
		r.last = p.Count
		if p.Total > 0 {
			r.ratio.Set(float64(p.Count) / float64(p.Total))
		}
	case burn.KindEnd:
		r.finish("ok")
	case burn.KindError:
		r.finish("error")
	}
}

func (r *Recorder) finish(result string) {
	r.burns.WithLabelValues(result).Inc()
	if !r.started.IsZero() {
		r.duration.WithLabelValues(result).Observe(r.now().Sub(r.started).Seconds())
	}
	r.started = time.Time{}
}

// WriteTextfile writes everything g gathers to path in the text exposition
// format, for the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
