package plugins

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/joy-dx/banknet/dto"
	"github.com/joy-dx/banknet/relays"
	"github.com/joy-dx/banknet/utils"
	relayDTO "github.com/joy-dx/relay/dto"
)

// Verbosity controls how much of a request/response Logging prints. Each
// level includes everything printed by the levels below it.
type Verbosity int

const (
	VerbosityNone Verbosity = iota
	VerbosityBasic
	VerbosityHeaders
	VerbosityBody
)

const (
	defaultMaxLoggedBody = 8 << 10
	redactedValue        = "[REDACTED]"
)

var verbosityNames = []string{"none", "basic", "headers", "body"}

func (v Verbosity) String() string {
	if v < VerbosityNone || v > VerbosityBody {
		return fmt.Sprintf("Verbosity(%d)", int(v))
	}
	return verbosityNames[v]
}

func ParseVerbosity(s string) (Verbosity, error) {
	for i, name := range verbosityNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Verbosity(i), nil
		}
	}
	return VerbosityNone, fmt.Errorf("unknown verbosity %q", s)
}

// Logging emits one relay Info event per request before transport and one per
// response after it. It never alters what it logs and never fails the call.
type Logging struct {
	Relay     relayDTO.RelayInterface
	Verbosity Verbosity
	// MaxBody truncates logged bodies, 0 keeps the default
	MaxBody int
	// Redact lists headers whose values are masked
	Redact []string
}

func NewLogging(relay relayDTO.RelayInterface, verbosity Verbosity) *Logging {
	return &Logging{
		Relay:     relay,
		Verbosity: verbosity,
		Redact:    []string{"Authorization", "Cookie", "Set-Cookie"},
	}
}

func (l *Logging) Name() string     { return "logging" }
func (l *Logging) BestEffort() bool { return true }

func (l *Logging) Prepare(ctx context.Context, req *dto.Request) error {
	if l.Verbosity <= VerbosityNone || l.Relay == nil {
		return nil
	}
	l.emit(func() relayDTO.RelayEventInterface {
		evt := relays.RlyNetRequest{
			Method:   req.Method,
			Target:   req.Target(),
			TaskName: req.TaskName,
		}
		if l.Verbosity >= VerbosityHeaders {
			evt.Headers = l.redact(req.Headers)
		}
		if l.Verbosity >= VerbosityBody {
			evt.Body, evt.BodyKind = l.renderBody(requestBody(req))
		}
		return evt
	})
	return nil
}

func (l *Logging) Process(ctx context.Context, req *dto.Request, resp *dto.Response) error {
	if l.Verbosity <= VerbosityNone || l.Relay == nil {
		return nil
	}
	l.emit(func() relayDTO.RelayEventInterface {
		evt := relays.RlyNetResponse{
			Method:     req.Method,
			Target:     req.Target(),
			StatusCode: resp.StatusCode,
		}
		if l.Verbosity >= VerbosityHeaders {
			evt.Headers = l.redact(resp.Headers)
		}
		if l.Verbosity >= VerbosityBody {
			evt.Body, evt.BodyKind = l.renderBody(resp.Body)
		}
		return evt
	})
	return nil
}

// emit builds and publishes the event, swallowing any panic on the way.
func (l *Logging) emit(build func() relayDTO.RelayEventInterface) {
	defer func() { _ = recover() }()
	l.Relay.Info(build())
}

func (l *Logging) redact(h http.Header) http.Header {
	if h == nil {
		return nil
	}
	out := h.Clone()
	for _, k := range l.Redact {
		if _, ok := out[http.CanonicalHeaderKey(k)]; ok {
			out.Set(k, redactedValue)
		}
	}
	return out
}

// renderBody prints JSON bodies compacted and anything else as text.
func (l *Logging) renderBody(body []byte) (string, string) {
	if len(body) == 0 {
		return "", relays.BodyKindText
	}
	limit := l.MaxBody
	if limit <= 0 {
		limit = defaultMaxLoggedBody
	}

	kind := relays.BodyKindText
	text := string(body)
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err == nil {
		kind = relays.BodyKindJSON
		text = buf.String()
	}
	truncated := len(text) > limit
	if truncated {
		cut := limit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	text = strings.ToValidUTF8(text, "?")
	if truncated {
		text += "...(truncated)"
	}
	return text, kind
}

// requestBody renders the body the transport will send without finalizing it
// on the request itself.
func requestBody(req *dto.Request) []byte {
	if req.BodyBytes != nil {
		return req.BodyBytes
	}
	buf, _, err := utils.PrepareBody(req.Body, req.BodyType)
	if err != nil {
		return []byte(fmt.Sprintf("<unencodable body: %v>", err))
	}
	return buf
}
