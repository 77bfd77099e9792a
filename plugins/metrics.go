package plugins

import (
	"context"
	"errors"
	"fmt"

	"github.com/joy-dx/banknet/dto"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts outbound requests and the responses they get back.
type Metrics struct {
	totalRequests  *prometheus.CounterVec
	responseStatus *prometheus.CounterVec
}

// NewMetrics registers the counters on reg. Counters already registered by
// another Metrics instance are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	requests, err := registerCounter(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banknet_requests_total",
			Help: "Number of requests entering the plugin chain.",
		},
		[]string{"method"},
	))
	if err != nil {
		return nil, err
	}

	responses, err := registerCounter(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banknet_responses_total",
			Help: "Received responses by status class.",
		},
		[]string{"method", "class"},
	))
	if err != nil {
		return nil, err
	}

	return &Metrics{totalRequests: requests, responseStatus: responses}, nil
}

func registerCounter(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	return c, nil
}

func (m *Metrics) Name() string     { return "metrics" }
func (m *Metrics) BestEffort() bool { return true }

func (m *Metrics) Prepare(ctx context.Context, req *dto.Request) error {
	m.totalRequests.WithLabelValues(req.Method).Inc()
	return nil
}

func (m *Metrics) Process(ctx context.Context, req *dto.Request, resp *dto.Response) error {
	m.responseStatus.WithLabelValues(req.Method, statusClass(resp.StatusCode)).Inc()
	return nil
}

// statusClass buckets a status code as "1xx" to "5xx", anything else as "other".
func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "other"
	}
	return fmt.Sprintf("%dxx", code/100)
}
