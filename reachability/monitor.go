// Package reachability tracks whether the network path is usable.
//
// A Monitor keeps a single connectivity boolean fed by a PathObserver running
// in the background. Reads are lock-free snapshots; listeners registered with
// OnChange only hear about transitions.
package reachability

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bassosimone/errclass"
	"github.com/joy-dx/banknet/relays"
	relayDTO "github.com/joy-dx/relay/dto"
)

// PathStatus is one observation of the underlying network path.
type PathStatus struct {
	Satisfied bool
	// Err explains an unsatisfied path when known. It is never surfaced to callers.
	Err error
}

// PathObserver produces path observations until ctx is done.
// Implementations must stop sending once ctx is done.
type PathObserver interface {
	Observe(ctx context.Context, updates chan<- PathStatus)
}

type listener struct {
	id int
	fn func(connected bool)
}

type Monitor struct {
	connected atomic.Bool
	relay     relayDTO.RelayInterface

	mu        sync.Mutex
	listeners []listener
	nextID    int

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

type Option func(m *Monitor)

// WithInitialState sets the snapshot reported before the first observation.
func WithInitialState(connected bool) Option {
	return func(m *Monitor) { m.connected.Store(connected) }
}

func WithRelay(relay relayDTO.RelayInterface) Option {
	return func(m *Monitor) {
		if relay != nil {
			m.relay = relay
		}
	}
}

// NewMonitor starts observing immediately. Call Close to release the observer.
func NewMonitor(observer PathObserver, opts ...Option) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Monitor{
		relay:  relays.NopRelay{},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.connected.Store(true)
	for _, opt := range opts {
		opt(m)
	}

	updates := make(chan PathStatus)
	go func() {
		defer close(updates)
		defer func() {
			if r := recover(); r != nil {
				m.relay.Warn(relays.RlyReachability{
					Msg:       "path observer stopped",
					Connected: m.connected.Load(),
					Err:       fmt.Sprint(r),
				})
			}
		}()
		observer.Observe(ctx, updates)
	}()

	go func() {
		defer close(m.done)
		for status := range updates {
			m.apply(status)
		}
	}()

	return m
}

// IsConnected returns the current snapshot. It never blocks.
func (m *Monitor) IsConnected() bool {
	return m.connected.Load()
}

// OnChange registers fn for connectivity transitions. Repeated identical
// observations do not re-invoke it. Listeners run on the monitor goroutine in
// registration order. The returned func unregisters fn.
func (m *Monitor) OnChange(fn func(connected bool)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, listener{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		out := m.listeners[:0]
		for _, l := range m.listeners {
			if l.id != id {
				out = append(out, l)
			}
		}
		m.listeners = out
	}
}

// Close stops the observer and waits for it to exit. Safe to call repeatedly.
func (m *Monitor) Close() error {
	m.closeOnce.Do(m.cancel)
	<-m.done
	return nil
}

func (m *Monitor) apply(status PathStatus) {
	if status.Err != nil {
		m.relay.Debug(relays.RlyReachability{
			Msg:       "path probe failed",
			Connected: status.Satisfied,
			ErrClass:  errclass.New(status.Err),
			Err:       status.Err.Error(),
		})
	}

	if prev := m.connected.Swap(status.Satisfied); prev == status.Satisfied {
		return
	}

	msg := "network path down"
	if status.Satisfied {
		msg = "network path up"
	}
	m.relay.Info(relays.RlyReachability{Msg: msg, Connected: status.Satisfied})

	m.mu.Lock()
	listeners := append([]listener(nil), m.listeners...)
	m.mu.Unlock()

	for _, l := range listeners {
		m.notify(l, status.Satisfied)
	}
}

func (m *Monitor) notify(l listener, connected bool) {
	defer func() {
		if r := recover(); r != nil {
			m.relay.Warn(relays.RlyReachability{
				Msg:       "reachability listener panicked",
				Connected: connected,
				Err:       fmt.Sprint(r),
			})
		}
	}()
	l.fn(connected)
}
