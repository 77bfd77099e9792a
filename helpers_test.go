package banknet

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/joy-dx/banknet/config"
	"github.com/joy-dx/banknet/dto"
	relayDTO "github.com/joy-dx/relay/dto"
)

// ---------- fakes ----------

type fakeRelay struct {
	mu   sync.Mutex
	evts []relayDTO.RelayEventInterface
	warn []string
}

func (r *fakeRelay) Debug(data relayDTO.RelayEventInterface) { r.add(data, false) }
func (r *fakeRelay) Info(data relayDTO.RelayEventInterface)  { r.add(data, false) }
func (r *fakeRelay) Warn(data relayDTO.RelayEventInterface)  { r.add(data, true) }
func (r *fakeRelay) Error(data relayDTO.RelayEventInterface) { r.add(data, false) }
func (r *fakeRelay) Fatal(data relayDTO.RelayEventInterface) { r.add(data, false) }
func (r *fakeRelay) Meta(data relayDTO.RelayEventInterface)  { r.add(data, false) }

func (r *fakeRelay) add(e relayDTO.RelayEventInterface, warn bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evts = append(r.evts, e)
	if warn && e != nil {
		r.warn = append(r.warn, e.Message())
	}
}

func (r *fakeRelay) events() []relayDTO.RelayEventInterface {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]relayDTO.RelayEventInterface(nil), r.evts...)
}

func (r *fakeRelay) warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.warn...)
}

type fakeNetClient struct {
	ref   string
	fn    func(ctx context.Context, req *dto.Request) (dto.Response, error)
	calls atomic.Int32
}

func (c *fakeNetClient) Ref() string             { return c.ref }
func (c *fakeNetClient) Type() dto.NetClientType { return "net.client.fake" }

func (c *fakeNetClient) ProcessRequest(ctx context.Context, req *dto.Request) (dto.Response, error) {
	c.calls.Add(1)
	return c.fn(ctx, req)
}

func respondWith(status int, body string) *fakeNetClient {
	return &fakeNetClient{
		ref: dto.NET_DEFAULT_CLIENT_REF,
		fn: func(ctx context.Context, req *dto.Request) (dto.Response, error) {
			return dto.Response{StatusCode: status, Body: []byte(body)}, nil
		},
	}
}

// trace records hook invocations across plugins in call order.
type trace struct {
	mu    sync.Mutex
	calls []string
}

func (t *trace) add(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, s)
}

func (t *trace) get() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.calls...)
}

type tracingPlugin struct {
	name       string
	trace      *trace
	prepareErr error
	processErr error
	bestEffort bool
	panics     bool
}

func (p *tracingPlugin) Name() string     { return p.name }
func (p *tracingPlugin) BestEffort() bool { return p.bestEffort }

func (p *tracingPlugin) Prepare(ctx context.Context, req *dto.Request) error {
	p.trace.add("prepare:" + p.name)
	if p.panics {
		panic(fmt.Sprintf("%s exploded", p.name))
	}
	return p.prepareErr
}

func (p *tracingPlugin) Process(ctx context.Context, req *dto.Request, resp *dto.Response) error {
	p.trace.add("process:" + p.name)
	return p.processErr
}

type fakeChecker struct{ connected atomic.Bool }

func (c *fakeChecker) IsConnected() bool { return c.connected.Load() }

// ---------- helpers ----------

func newTestSvc(t *testing.T, transport dto.NetClientInterface, chain ...dto.Plugin) (*NetSvc, *fakeRelay) {
	t.Helper()

	rly := &fakeRelay{}
	cfg := config.DefaultNetSvcConfig()
	cfg.WithRelay(rly).WithBaseURL("https://bank.example")
	s := NewNetSvc(&cfg, chain...)
	if transport != nil {
		s.RegisterClient(dto.NET_DEFAULT_CLIENT_REF, transport)
	}
	return s, rly
}

func newRequest(method, path string) *dto.Request {
	r := dto.DefaultRequest()
	r.WithMethod(method).WithPath(path)
	return &r
}
