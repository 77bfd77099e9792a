// Package plugins holds the request/response plugins run by the network
// service: authentication, connectivity gating, logging and friends.
package plugins

import (
	"context"

	"github.com/joy-dx/banknet/dto"
)

// Base is the no-op plugin. Embed it to implement only the hook you need.
type Base struct{}

func (Base) Name() string { return "base" }

func (Base) Prepare(ctx context.Context, req *dto.Request) error { return nil }

func (Base) Process(ctx context.Context, req *dto.Request, resp *dto.Response) error {
	return nil
}

var _ dto.Plugin = Base{}

// PrepareFunc is an adapter to allow the use of ordinary functions as a
// prepare-only plugin.
type PrepareFunc func(ctx context.Context, req *dto.Request) error

func (f PrepareFunc) Name() string { return "prepare-func" }

func (f PrepareFunc) Prepare(ctx context.Context, req *dto.Request) error { return f(ctx, req) }

func (f PrepareFunc) Process(ctx context.Context, req *dto.Request, resp *dto.Response) error {
	return nil
}

// ProcessFunc is an adapter to allow the use of ordinary functions as a
// process-only plugin.
type ProcessFunc func(ctx context.Context, req *dto.Request, resp *dto.Response) error

func (f ProcessFunc) Name() string { return "process-func" }

func (f ProcessFunc) Prepare(ctx context.Context, req *dto.Request) error { return nil }

func (f ProcessFunc) Process(ctx context.Context, req *dto.Request, resp *dto.Response) error {
	return f(ctx, req, resp)
}
