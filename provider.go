package banknet

import (
	"container/list"
	"fmt"

	"github.com/joy-dx/banknet/client/s3client"
	"github.com/joy-dx/banknet/config"
	"github.com/joy-dx/banknet/dto"
	"github.com/joy-dx/banknet/plugins"
	"github.com/joy-dx/banknet/relays"
	"github.com/joy-dx/lockablemap"
	"github.com/prometheus/client_golang/prometheus"
)

// NewNetSvc builds a service running plugins in the given order for both the
// prepare and the process phase. Call Hydrate before the first request.
func NewNetSvc(cfg *config.NetSvcConfig, chain ...dto.Plugin) *NetSvc {
	if cfg == nil {
		defaults := config.DefaultNetSvcConfig()
		cfg = &defaults
	}
	registered := make([]dto.Plugin, 0, len(chain))
	for _, p := range chain {
		if p != nil {
			registered = append(registered, p)
		}
	}

	s := &NetSvc{
		cfg:          cfg,
		relay:        cfg.Relay(),
		plugins:      registered,
		clients:      make(map[string]dto.NetClientInterface),
		requestState: lockablemap.NewLockableMap[string, dto.RequestStatus](),
		finished:     list.New(),
		finishedAt:   make(map[string]*list.Element),
		historyCap:   cfg.RequestHistory,
	}
	if s.historyCap <= 0 {
		s.historyCap = config.DefaultRequestHistory
	}
	s.relay.Debug(relays.RlyNetLog{Msg: "Net service started"})
	return s
}

// ChainOptions supplies the collaborators of the standard plugin chain. Nil
// members leave their plugin out.
type ChainOptions struct {
	Checker    dto.ConnectivityChecker
	Tokens     dto.TokenSource
	Registerer prometheus.Registerer
}

// StandardChain assembles Connectivity, StaticHeaders, RequestID, S3 static
// metadata, Auth, Metrics and Logging in that order from the service
// configuration.
func StandardChain(cfg *config.NetSvcConfig, opts ChainOptions) ([]dto.Plugin, error) {
	verbosity := plugins.VerbosityNone
	if cfg.LogVerbosity != "" {
		v, err := plugins.ParseVerbosity(cfg.LogVerbosity)
		if err != nil {
			return nil, err
		}
		verbosity = v
	}

	chain := make([]dto.Plugin, 0, 7)
	if opts.Checker != nil {
		chain = append(chain, plugins.NewConnectivity(opts.Checker))
	}
	chain = append(chain,
		plugins.NewStaticHeaders(cfg.ExtraHeaders, cfg.UserAgent),
		plugins.NewRequestID(),
	)
	if len(cfg.S3.Metadata) > 0 {
		chain = append(chain, s3client.NewStaticMetadata(dto.NET_S3_CLIENT_REF, cfg.S3.Metadata))
	}
	if opts.Tokens != nil {
		chain = append(chain, plugins.NewAuth(opts.Tokens))
	}
	if opts.Registerer != nil {
		metrics, err := plugins.NewMetrics(opts.Registerer)
		if err != nil {
			return nil, fmt.Errorf("metrics plugin: %w", err)
		}
		chain = append(chain, metrics)
	}
	chain = append(chain, plugins.NewLogging(cfg.Relay(), verbosity))
	return chain, nil
}
