package banknet

import (
	"container/list"
	"fmt"
	"sort"
	"sync"

	"github.com/joy-dx/banknet/config"
	"github.com/joy-dx/banknet/dto"
	"github.com/joy-dx/lockablemap"
	relayDTO "github.com/joy-dx/relay/dto"
)

// NetSvc runs every outbound call through an ordered plugin chain around a
// single transport exchange.
type NetSvc struct {
	cfg          *config.NetSvcConfig
	relay        relayDTO.RelayInterface
	plugins      []dto.Plugin
	muClients    sync.RWMutex
	clients      map[string]dto.NetClientInterface
	requestState *lockablemap.LockableMap[string, dto.RequestStatus]

	// finished orders the keys of completed requests, oldest first
	muHistory  sync.Mutex
	finished   *list.List
	finishedAt map[string]*list.Element
	historyCap int
}

var _ dto.NetInterface = (*NetSvc)(nil)

func (s *NetSvc) RegisterClient(ref string, client dto.NetClientInterface) {
	s.muClients.Lock()
	defer s.muClients.Unlock()
	s.clients[ref] = client
}

// Plugins returns the registered chain in execution order.
func (s *NetSvc) Plugins() []dto.Plugin {
	return append([]dto.Plugin(nil), s.plugins...)
}

func (s *NetSvc) client(ref string) (dto.NetClientInterface, error) {
	if ref == "" {
		ref = dto.NET_DEFAULT_CLIENT_REF
	}
	s.muClients.RLock()
	defer s.muClients.RUnlock()
	c, ok := s.clients[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dto.ErrClientNotFound, ref)
	}
	return c, nil
}

func (s *NetSvc) clientRefs() []string {
	s.muClients.RLock()
	defer s.muClients.RUnlock()
	refs := make([]string, 0, len(s.clients))
	for ref := range s.clients {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}
