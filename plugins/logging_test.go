package plugins

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/joy-dx/banknet/dto"
	"github.com/joy-dx/banknet/relays"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggedRequest() *dto.Request {
	req := dto.DefaultRequest()
	req.WithMethod(http.MethodPost).
		WithPath("/transfers").
		WithQuery("dry_run", "1").
		WithHeader("Authorization", "Bearer secret").
		WithHeader("X-Trace", "t-1").
		WithBody(map[string]any{"amount": 10})
	return &req
}

func TestLogging_VerbosityNoneEmitsNothing(t *testing.T) {
	t.Parallel()

	rly := &fakeRelay{}
	lg := NewLogging(rly, VerbosityNone)
	req := newLoggedRequest()
	resp := dto.Response{StatusCode: 200, Body: []byte(`{}`)}

	require.NoError(t, lg.Prepare(context.Background(), req))
	require.NoError(t, lg.Process(context.Background(), req, &resp))
	assert.Empty(t, rly.events())
}

func TestLogging_VerbosityBasic(t *testing.T) {
	t.Parallel()

	rly := &fakeRelay{}
	lg := NewLogging(rly, VerbosityBasic)
	req := newLoggedRequest()

	require.NoError(t, lg.Prepare(context.Background(), req))
	evts := rly.events()
	require.Len(t, evts, 1)

	evt, ok := evts[0].(relays.RlyNetRequest)
	require.True(t, ok)
	assert.Equal(t, http.MethodPost, evt.Method)
	assert.Equal(t, "/transfers?dry_run=1", evt.Target)
	assert.Nil(t, evt.Headers)
	assert.Empty(t, evt.Body)
}

func TestLogging_VerbosityBody(t *testing.T) {
	t.Parallel()

	rly := &fakeRelay{}
	lg := NewLogging(rly, VerbosityBody)
	req := newLoggedRequest()
	resp := dto.Response{
		StatusCode: http.StatusCreated,
		Headers:    http.Header{"Content-Type": []string{"application/json"}, "Set-Cookie": []string{"sid=1"}},
		Body:       []byte("{\n  \"id\": \"tx-1\"\n}"),
	}

	require.NoError(t, lg.Prepare(context.Background(), req))
	require.NoError(t, lg.Process(context.Background(), req, &resp))

	evts := rly.events()
	require.Len(t, evts, 2)

	reqEvt := evts[0].(relays.RlyNetRequest)
	assert.Equal(t, redactedValue, reqEvt.Headers.Get("Authorization"))
	assert.Equal(t, "t-1", reqEvt.Headers.Get("X-Trace"))
	assert.Equal(t, `{"amount":10}`, reqEvt.Body)
	assert.Equal(t, relays.BodyKindJSON, reqEvt.BodyKind)

	respEvt := evts[1].(relays.RlyNetResponse)
	assert.Equal(t, http.StatusCreated, respEvt.StatusCode)
	assert.Equal(t, "/transfers?dry_run=1", respEvt.Target)
	assert.Equal(t, "application/json", respEvt.Headers.Get("Content-Type"))
	assert.Equal(t, redactedValue, respEvt.Headers.Get("Set-Cookie"))
	assert.Equal(t, `{"id":"tx-1"}`, respEvt.Body)

	// the logged request is left untouched
	assert.Equal(t, "Bearer secret", req.Header("Authorization"))
	assert.Nil(t, req.BodyBytes)
	assert.Equal(t, "sid=1", resp.Headers.Get("Set-Cookie"))
}

func TestLogging_TextFallbackAndTruncation(t *testing.T) {
	t.Parallel()

	rly := &fakeRelay{}
	lg := NewLogging(rly, VerbosityBody)
	lg.MaxBody = 8
	req := newLoggedRequest()
	resp := dto.Response{StatusCode: http.StatusBadGateway, Body: []byte("upstream unavailable")}

	require.NoError(t, lg.Process(context.Background(), req, &resp))
	evt := rly.events()[0].(relays.RlyNetResponse)
	assert.Equal(t, relays.BodyKindText, evt.BodyKind)
	assert.True(t, strings.HasPrefix(evt.Body, "upstream"))
	assert.True(t, strings.HasSuffix(evt.Body, "(truncated)"))
}

func TestLogging_RenderBody_Golden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    []byte
		maxBody int
		want    string
	}{
		{name: "cut backs off to a rune start", body: []byte("€€€€"), maxBody: 4, want: "€...(truncated)"},
		{name: "cut on a rune boundary", body: []byte("€€€€"), maxBody: 6, want: "€€...(truncated)"},
		{name: "cut inside the first rune", body: []byte("€uro"), maxBody: 2, want: "...(truncated)"},
		{name: "short body untouched", body: []byte("ok"), maxBody: 8, want: "ok"},
		{name: "invalid bytes replaced", body: []byte{0xff, 'a'}, maxBody: 8, want: "?a"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lg := NewLogging(&fakeRelay{}, VerbosityBody)
			lg.MaxBody = tt.maxBody
			got, kind := lg.renderBody(tt.body)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, relays.BodyKindText, kind)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestLogging_NeverFails(t *testing.T) {
	t.Parallel()

	lg := NewLogging(&panicRelay{}, VerbosityBody)
	req := newLoggedRequest()
	req.WithBody(func() {})
	resp := dto.Response{StatusCode: 200}

	assert.NotPanics(t, func() {
		assert.NoError(t, lg.Prepare(context.Background(), req))
		assert.NoError(t, lg.Process(context.Background(), req, &resp))
	})
	assert.True(t, lg.BestEffort())
}

func TestParseVerbosity_Golden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Verbosity
		wantErr bool
	}{
		{in: "none", want: VerbosityNone},
		{in: "Basic", want: VerbosityBasic},
		{in: " headers ", want: VerbosityHeaders},
		{in: "BODY", want: VerbosityBody},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseVerbosity(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("got=%v want %v", got, tt.want)
			}
		})
	}
}
