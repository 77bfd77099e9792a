package relays

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/joy-dx/banknet/dto"
	relayDTO "github.com/joy-dx/relay/dto"
)

const (
	RlyNetChannel relayDTO.EventChannel = "net"

	RlyNetLogRef       relayDTO.EventRef = "net.log"
	RlyNetRequestRef   relayDTO.EventRef = "net.request"
	RlyNetResponseRef  relayDTO.EventRef = "net.response"
	RlyReachabilityRef relayDTO.EventRef = "net.reachability"
)

const (
	BodyKindJSON = "json"
	BodyKindText = "text"

	headerValueSeparator = ", "
)

// RlyNetLog is a service level event (pipeline stages, failures).
type RlyNetLog struct {
	Msg      string
	Method   string
	Target   string
	Stage    dto.RequestStage
	ErrKind  string
	ErrClass string
	Err      string
}

func (e RlyNetLog) RelayChannel() relayDTO.EventChannel { return RlyNetChannel }
func (e RlyNetLog) RelayType() relayDTO.EventRef        { return RlyNetLogRef }
func (e RlyNetLog) Message() string                     { return e.Msg }
func (e RlyNetLog) ToSlog() []slog.Attr {
	attrs := make([]slog.Attr, 0, 6)
	attrs = appendString(attrs, "method", e.Method)
	attrs = appendString(attrs, "target", e.Target)
	attrs = appendString(attrs, "stage", string(e.Stage))
	attrs = appendString(attrs, "err_kind", e.ErrKind)
	attrs = appendString(attrs, "err_class", e.ErrClass)
	attrs = appendString(attrs, "err", e.Err)
	return attrs
}

// RlyNetRequest is emitted once per request before transport. Headers and
// Body are left empty when the configured verbosity excludes them.
type RlyNetRequest struct {
	Method   string
	Target   string
	TaskName string
	Headers  http.Header
	Body     string
	BodyKind string
}

func (e RlyNetRequest) RelayChannel() relayDTO.EventChannel { return RlyNetChannel }
func (e RlyNetRequest) RelayType() relayDTO.EventRef        { return RlyNetRequestRef }
func (e RlyNetRequest) Message() string {
	return fmt.Sprintf("--> %s %s", e.Method, e.Target)
}
func (e RlyNetRequest) ToSlog() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("method", e.Method),
		slog.String("target", e.Target),
	}
	attrs = appendString(attrs, "task", e.TaskName)
	attrs = appendHeaders(attrs, e.Headers)
	attrs = appendBody(attrs, e.Body, e.BodyKind)
	return attrs
}

// RlyNetResponse is emitted once per response after transport.
type RlyNetResponse struct {
	Method     string
	Target     string
	StatusCode int
	Headers    http.Header
	Body       string
	BodyKind   string
}

func (e RlyNetResponse) RelayChannel() relayDTO.EventChannel { return RlyNetChannel }
func (e RlyNetResponse) RelayType() relayDTO.EventRef        { return RlyNetResponseRef }
func (e RlyNetResponse) Message() string {
	return fmt.Sprintf("<-- %d %s %s", e.StatusCode, e.Method, e.Target)
}
func (e RlyNetResponse) ToSlog() []slog.Attr {
	attrs := []slog.Attr{
		slog.Int("status", e.StatusCode),
		slog.String("method", e.Method),
		slog.String("target", e.Target),
	}
	attrs = appendHeaders(attrs, e.Headers)
	attrs = appendBody(attrs, e.Body, e.BodyKind)
	return attrs
}

// RlyReachability reports connectivity transitions and probe failures.
type RlyReachability struct {
	Msg       string
	Connected bool
	ErrClass  string
	Err       string
}

func (e RlyReachability) RelayChannel() relayDTO.EventChannel { return RlyNetChannel }
func (e RlyReachability) RelayType() relayDTO.EventRef        { return RlyReachabilityRef }
func (e RlyReachability) Message() string                     { return e.Msg }
func (e RlyReachability) ToSlog() []slog.Attr {
	attrs := []slog.Attr{slog.Bool("connected", e.Connected)}
	attrs = appendString(attrs, "err_class", e.ErrClass)
	attrs = appendString(attrs, "err", e.Err)
	return attrs
}

func appendString(attrs []slog.Attr, key, value string) []slog.Attr {
	if value == "" {
		return attrs
	}
	return append(attrs, slog.String(key, value))
}

// appendHeaders groups headers under "headers" in a stable key order.
func appendHeaders(attrs []slog.Attr, h http.Header) []slog.Attr {
	if len(h) == 0 {
		return attrs
	}
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	group := make([]any, 0, len(keys))
	for _, k := range keys {
		group = append(group, slog.String(k, strings.Join(h[k], headerValueSeparator)))
	}
	return append(attrs, slog.Group("headers", group...))
}

func appendBody(attrs []slog.Attr, body, kind string) []slog.Attr {
	if kind == "" {
		return attrs
	}
	return append(attrs, slog.String("body_kind", kind), slog.String("body", body))
}
