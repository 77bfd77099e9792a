package plugins

import (
	"context"

	"github.com/joy-dx/banknet/dto"
)

// Connectivity fails a request with dto.ErrOffline when the checker reports
// no connectivity, before any later plugin or the transport runs.
type Connectivity struct {
	Base
	Checker dto.ConnectivityChecker
}

func NewConnectivity(checker dto.ConnectivityChecker) *Connectivity {
	return &Connectivity{Checker: checker}
}

func (c *Connectivity) Name() string { return "connectivity" }

func (c *Connectivity) Prepare(ctx context.Context, req *dto.Request) error {
	if c.Checker != nil && !c.Checker.IsConnected() {
		return dto.ErrOffline
	}
	return nil
}
