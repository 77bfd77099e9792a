package dto

import (
	"context"
)

type NetInterface interface {
	Hydrate(ctx context.Context) error
	State() *NetState
	RegisterClient(ref string, client NetClientInterface)
	Do(ctx context.Context, req *Request) (Response, error)
}

// Plugin hooks into the request lifecycle of the network service.
//
// Prepare runs before the transport call and may mutate the request or veto
// it by returning an error. Process runs after the transport call with the
// caller's original request and the completed response and may veto the
// response by returning an error. Embed plugins.Base to opt into a single hook.
//
// A Plugin must not keep per-request mutable state: one instance serves every
// concurrent call.
type Plugin interface {
	Name() string
	Prepare(ctx context.Context, req *Request) error
	Process(ctx context.Context, req *Request, resp *Response) error
}

// BestEffortPlugin marks a plugin whose failures are reported but never abort
// the pipeline (logging, metrics).
type BestEffortPlugin interface {
	Plugin
	BestEffort() bool
}

// TokenSource yields the access token to attach to outbound requests.
// An empty token means the request goes out unauthenticated.
// Implementations must be safe for concurrent use.
type TokenSource interface {
	CurrentToken(ctx context.Context) (string, error)
}

// TokenInvalidator is implemented by token sources able to drop a token the
// server rejected.
type TokenInvalidator interface {
	InvalidateToken()
}

// AuthProvider defines methods for non-OAuth authentication schemes.
type AuthProvider interface {
	Authenticate(ctx context.Context) (TokenInfo, error)
	Refresh(ctx context.Context, old TokenInfo) (TokenInfo, error)
}

// ConnectivityChecker exposes a connectivity snapshot. It must never block.
type ConnectivityChecker interface {
	IsConnected() bool
}

// NetClientInterface is a transport: it exchanges one prepared request for
// one response.
type NetClientInterface interface {
	Ref() string
	Type() NetClientType
	ProcessRequest(ctx context.Context, req *Request) (Response, error)
}
