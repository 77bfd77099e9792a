package reachability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-pkgz/repeater"
)

const (
	defaultProbeInterval = 5 * time.Second
	defaultConfirmDelay  = 250 * time.Millisecond
)

var ErrNoProbeAddress = errors.New("no probe address configured")

// Prober checks the network path once.
type Prober interface {
	Probe(ctx context.Context) error
}

// ProberFunc is an adapter to allow the use of ordinary functions as a Prober.
type ProberFunc func(ctx context.Context) error

func (f ProberFunc) Probe(ctx context.Context) error { return f(ctx) }

// DialProber treats a successful dial to Address as a usable path.
type DialProber struct {
	Network string
	Address string
	Dialer  *net.Dialer
}

func (p DialProber) Probe(ctx context.Context) error {
	if p.Address == "" {
		return ErrNoProbeAddress
	}
	network := p.Network
	if network == "" {
		network = "tcp"
	}
	dialer := p.Dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}
	conn, err := dialer.DialContext(ctx, network, p.Address)
	if err != nil {
		return fmt.Errorf("dial %s %s: %w", network, p.Address, err)
	}
	return conn.Close()
}

// PollingObserver probes the path every Interval. A failed probe is retried
// Confirm times, ConfirmDelay apart, before the path is reported down, so a
// single dropped packet does not flap the monitor.
type PollingObserver struct {
	Prober       Prober
	Interval     time.Duration
	Confirm      int
	ConfirmDelay time.Duration
}

func (o *PollingObserver) Observe(ctx context.Context, updates chan<- PathStatus) {
	interval := o.Interval
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status := o.check(ctx, interval)
		// a probe cut short by Close says nothing about the path
		if ctx.Err() != nil {
			return
		}
		if !send(ctx, updates, status) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (o *PollingObserver) check(ctx context.Context, bound time.Duration) PathStatus {
	attempts := o.Confirm
	if attempts < 1 {
		attempts = 1
	}
	delay := o.ConfirmDelay
	if delay <= 0 {
		delay = defaultConfirmDelay
	}

	err := repeater.NewDefault(attempts, delay).Do(ctx, func() error {
		probeCtx, cancel := context.WithTimeout(ctx, bound)
		defer cancel()
		return o.Prober.Probe(probeCtx)
	})
	return PathStatus{Satisfied: err == nil, Err: err}
}

// ChannelObserver forwards an external connectivity signal, for platforms that
// push path changes instead of being polled.
type ChannelObserver <-chan bool

func (c ChannelObserver) Observe(ctx context.Context, updates chan<- PathStatus) {
	for {
		select {
		case <-ctx.Done():
			return
		case up, ok := <-c:
			if !ok {
				return
			}
			if !send(ctx, updates, PathStatus{Satisfied: up}) {
				return
			}
		}
	}
}

// send never delivers once ctx is done, even if the receiver is ready.
func send(ctx context.Context, updates chan<- PathStatus, status PathStatus) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case updates <- status:
		return true
	}
}
