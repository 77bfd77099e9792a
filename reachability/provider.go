package reachability

import (
	"github.com/joy-dx/banknet/config"
)

// ProvideMonitor builds a dial-probing Monitor from the service configuration.
// The caller owns the monitor and must Close it on shutdown.
func ProvideMonitor(cfg *config.NetSvcConfig) *Monitor {
	rc := cfg.Reachability
	observer := &PollingObserver{
		Prober:       DialProber{Network: rc.ProbeNetwork, Address: rc.ProbeAddress},
		Interval:     rc.ProbeInterval,
		Confirm:      rc.ConfirmAttempts,
		ConfirmDelay: rc.ConfirmDelay,
	}
	return NewMonitor(observer,
		WithInitialState(rc.InitialConnected),
		WithRelay(cfg.Relay()),
	)
}
