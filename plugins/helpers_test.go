package plugins

import (
	"sync"

	relayDTO "github.com/joy-dx/relay/dto"
)

type fakeRelay struct {
	mu   sync.Mutex
	evts []relayDTO.RelayEventInterface
}

func (r *fakeRelay) Debug(data relayDTO.RelayEventInterface) { r.add(data) }
func (r *fakeRelay) Info(data relayDTO.RelayEventInterface)  { r.add(data) }
func (r *fakeRelay) Warn(data relayDTO.RelayEventInterface)  { r.add(data) }
func (r *fakeRelay) Error(data relayDTO.RelayEventInterface) { r.add(data) }
func (r *fakeRelay) Fatal(data relayDTO.RelayEventInterface) { r.add(data) }
func (r *fakeRelay) Meta(data relayDTO.RelayEventInterface)  { r.add(data) }

func (r *fakeRelay) add(e relayDTO.RelayEventInterface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evts = append(r.evts, e)
}

func (r *fakeRelay) events() []relayDTO.RelayEventInterface {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]relayDTO.RelayEventInterface(nil), r.evts...)
}

type panicRelay struct{ fakeRelay }

func (r *panicRelay) Info(relayDTO.RelayEventInterface) { panic("sink exploded") }

type fakeChecker bool

func (c fakeChecker) IsConnected() bool { return bool(c) }
