package plugins

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/joy-dx/banknet/dto"
)

const defaultAuthHeader = "Authorization"

// Auth attaches the current token to outbound requests and turns a 401
// response into dto.ErrUnauthorized whatever the body says.
type Auth struct {
	Source dto.TokenSource
	// Scheme prefixes the token, "Bearer" when empty
	Scheme string
	// Header carrying the credentials, "Authorization" when empty
	Header string
}

func NewAuth(source dto.TokenSource) *Auth {
	return &Auth{Source: source}
}

func (a *Auth) WithScheme(scheme string) *Auth {
	a.Scheme = scheme
	return a
}

func (a *Auth) WithHeader(header string) *Auth {
	a.Header = header
	return a
}

func (a *Auth) Name() string { return "auth" }

func (a *Auth) Prepare(ctx context.Context, req *dto.Request) error {
	if a.Source == nil {
		return nil
	}
	token, err := a.Source.CurrentToken(ctx)
	if err != nil {
		return fmt.Errorf("current token: %w", err)
	}
	if token == "" {
		return nil
	}
	req.SetHeader(a.header(), fmt.Sprintf("%s %s", normalizeAuthType(a.Scheme), token))
	return nil
}

func (a *Auth) Process(ctx context.Context, req *dto.Request, resp *dto.Response) error {
	if resp.StatusCode != http.StatusUnauthorized {
		return nil
	}
	if inv, ok := a.Source.(dto.TokenInvalidator); ok {
		inv.InvalidateToken()
	}
	return dto.ErrUnauthorized
}

func (a *Auth) header() string {
	if a.Header == "" {
		return defaultAuthHeader
	}
	return a.Header
}

// normalizeAuthType ensures proper "Bearer", "Basic", or custom capitalization.
func normalizeAuthType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "bearer", "":
		return "Bearer"
	case "basic":
		return "Basic"
	default:
		return strings.TrimSpace(t)
	}
}
