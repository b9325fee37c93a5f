package storage

import (
	"context"
	"errors"
	"io"

	"github.com/prometheus/client_golang/prometheus"
)

// Instrumented counts uploads by driver and outcome.
type Instrumented struct {
	next    ImageStore
	uploads *prometheus.CounterVec
}

func NewInstrumented(next ImageStore, uploads *prometheus.CounterVec) *Instrumented {
	return &Instrumented{next: next, uploads: uploads}
}

func (s *Instrumented) Driver() string { return s.next.Driver() }

func (s *Instrumented) Save(ctx context.Context, r io.Reader) (string, error) {
	url, err := s.next.Save(ctx, r)

	result := "ok"
	switch {
	case errors.Is(err, ErrNotImage):
		result = "rejected"
	case err != nil:
		result = "error"
	}
	s.uploads.WithLabelValues(s.next.Driver(), result).Inc()

	return url, err
}

func (s *Instrumented) Delete(ctx context.Context, url string) error {
	return s.next.Delete(ctx, url)
}
