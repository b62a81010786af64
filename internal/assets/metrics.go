package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer captures telemetry for remote asset operations.
type Observer interface {
	RecordUpload(duration time.Duration, sizeBytes int64, err error)
	RecordDestroy(duration time.Duration, err error)
}

// PrometheusObserver exports asset store metrics to Prometheus.
type PrometheusObserver struct {
	duration    *prometheus.HistogramVec
	errors      *prometheus.CounterVec
	uploadBytes prometheus.Counter
}

// NewPrometheusObserver registers upload/destroy metrics on reg.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "tarmuz_assets"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	observer := &PrometheusObserver{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of remote asset operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Count of failed remote asset operations.",
		}, []string{"operation"}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Bytes successfully pushed to the remote asset host.",
		}),
	}

	var err error
	if observer.duration, err = register(reg, observer.duration); err != nil {
		return nil, err
	}
	if observer.errors, err = register(reg, observer.errors); err != nil {
		return nil, err
	}
	if observer.uploadBytes, err = register(reg, observer.uploadBytes); err != nil {
		return nil, err
	}

	return observer, nil
}

// register adds c to reg, reusing the collector already registered under the same name.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register asset metric: %w", err)
	}
	return c, nil
}

func (o *PrometheusObserver) RecordUpload(duration time.Duration, sizeBytes int64, err error) {
	if o == nil {
		return
	}
	o.duration.WithLabelValues("upload").Observe(duration.Seconds())
	if err != nil {
		o.errors.WithLabelValues("upload").Inc()
		return
	}
	o.uploadBytes.Add(float64(sizeBytes))
}

func (o *PrometheusObserver) RecordDestroy(duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.duration.WithLabelValues("destroy").Observe(duration.Seconds())
	if err != nil {
		o.errors.WithLabelValues("destroy").Inc()
	}
}

// observedStore reports every call on the wrapped store to an Observer.
type observedStore struct {
	Store
	observer Observer
}

// WithObserver wraps store so its uploads and deletions are recorded.
func WithObserver(store Store, observer Observer) Store {
	if observer == nil {
		return store
	}
	return &observedStore{Store: store, observer: observer}
}

func (s *observedStore) Upload(ctx context.Context, localPath, publicID string) (Asset, error) {
	start := time.Now()
	asset, err := s.Store.Upload(ctx, localPath, publicID)
	s.observer.RecordUpload(time.Since(start), asset.Bytes, err)
	return asset, err
}

func (s *observedStore) Destroy(ctx context.Context, publicID string) error {
	start := time.Now()
	err := s.Store.Destroy(ctx, publicID)
	s.observer.RecordDestroy(time.Since(start), err)
	return err
}
