package relays

import (
	"strings"

	log "github.com/go-pkgz/lgr"
	relayDTO "github.com/joy-dx/relay/dto"
)

// NopRelay discards every event.
type NopRelay struct{}

func (NopRelay) Debug(relayDTO.RelayEventInterface) {}
func (NopRelay) Info(relayDTO.RelayEventInterface)  {}
func (NopRelay) Warn(relayDTO.RelayEventInterface)  {}
func (NopRelay) Error(relayDTO.RelayEventInterface) {}
func (NopRelay) Fatal(relayDTO.RelayEventInterface) {}
func (NopRelay) Meta(relayDTO.RelayEventInterface)  {}

// LgrRelay writes relay events as single lgr lines: the event message followed
// by its slog attributes in key=value form.
type LgrRelay struct {
	L log.L
}

func NewLgrRelay(l log.L) *LgrRelay {
	if l == nil {
		l = log.New()
	}
	return &LgrRelay{L: l}
}

func (r *LgrRelay) Debug(data relayDTO.RelayEventInterface) { r.emit("DEBUG", data) }
func (r *LgrRelay) Info(data relayDTO.RelayEventInterface)  { r.emit("INFO", data) }
func (r *LgrRelay) Warn(data relayDTO.RelayEventInterface)  { r.emit("WARN", data) }
func (r *LgrRelay) Error(data relayDTO.RelayEventInterface) { r.emit("ERROR", data) }

// Fatal is logged at ERROR: lgr exits the process on FATAL and a library
// event must not do that.
func (r *LgrRelay) Fatal(data relayDTO.RelayEventInterface) { r.emit("ERROR", data) }
func (r *LgrRelay) Meta(data relayDTO.RelayEventInterface)  { r.emit("TRACE", data) }

func (r *LgrRelay) emit(level string, data relayDTO.RelayEventInterface) {
	if data == nil {
		return
	}
	r.L.Logf("[%s] %s", level, FormatEvent(data))
}

// FormatEvent renders an event as "message key=value ...".
func FormatEvent(data relayDTO.RelayEventInterface) string {
	var sb strings.Builder
	sb.WriteString(data.Message())
	for _, a := range data.ToSlog() {
		sb.WriteByte(' ')
		sb.WriteString(a.String())
	}
	return sb.String()
}
