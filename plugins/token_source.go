package plugins

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/joy-dx/banknet/dto"
	"golang.org/x/oauth2"
)

const defaultRefreshBuffer = 30 * time.Second

// StaticToken always yields the same token. An empty StaticToken yields none.
type StaticToken string

func (s StaticToken) CurrentToken(ctx context.Context) (string, error) {
	return string(s), nil
}

// TokenSourceFunc is an adapter to allow the use of ordinary functions as a
// dto.TokenSource. The function must be safe for concurrent use.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) CurrentToken(ctx context.Context) (string, error) {
	return f(ctx)
}

// -----------------------------------------------------------------------------
// OAUTH2
// -----------------------------------------------------------------------------

// OAuth2TokenSource serves tokens from a golang.org/x/oauth2 TokenSource,
// caching them until expiry.
type OAuth2TokenSource struct {
	base  oauth2.TokenSource
	mu    sync.Mutex
	reuse oauth2.TokenSource
}

func NewOAuth2TokenSource(src oauth2.TokenSource) *OAuth2TokenSource {
	return &OAuth2TokenSource{
		base:  src,
		reuse: oauth2.ReuseTokenSource(nil, src),
	}
}

func (s *OAuth2TokenSource) CurrentToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	src := s.reuse
	s.mu.Unlock()

	tok, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("oauth2 token fetch: %w", err)
	}
	return tok.AccessToken, nil
}

// InvalidateToken drops the cached token so the next call hits the base source.
func (s *OAuth2TokenSource) InvalidateToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reuse = oauth2.ReuseTokenSource(nil, s.base)
}

// -----------------------------------------------------------------------------
// AUTH PROVIDER
// -----------------------------------------------------------------------------

// ProviderTokenSource keeps a token obtained from a dto.AuthProvider,
// refreshing it RefreshBuffer before expiry. A failed refresh falls back to a
// fresh Authenticate.
type ProviderTokenSource struct {
	Provider      dto.AuthProvider
	RefreshBuffer time.Duration

	token   dto.TokenInfo
	tokenMu sync.RWMutex
}

func NewProviderTokenSource(provider dto.AuthProvider) *ProviderTokenSource {
	return &ProviderTokenSource{Provider: provider, RefreshBuffer: defaultRefreshBuffer}
}

func (s *ProviderTokenSource) CurrentToken(ctx context.Context) (string, error) {
	s.tokenMu.RLock()
	valid := !s.token.IsExpired(s.RefreshBuffer)
	token := s.token.AccessToken
	s.tokenMu.RUnlock()
	if valid {
		return token, nil
	}
	return s.refreshToken(ctx)
}

func (s *ProviderTokenSource) InvalidateToken() {
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()
	s.token = dto.TokenInfo{}
}

// refreshToken retrieves a new token, re-checking under the write lock so
// concurrent callers share one refresh.
func (s *ProviderTokenSource) refreshToken(ctx context.Context) (string, error) {
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()

	if !s.token.IsExpired(s.RefreshBuffer) {
		return s.token.AccessToken, nil
	}
	if s.Provider == nil {
		return "", nil
	}

	var newTok dto.TokenInfo
	var err error
	if s.token.AccessToken == "" {
		newTok, err = s.Provider.Authenticate(ctx)
	} else {
		newTok, err = s.Provider.Refresh(ctx, s.token)
		if err != nil {
			newTok, err = s.Provider.Authenticate(ctx)
		}
	}
	if err != nil {
		return "", fmt.Errorf("auth provider refresh: %w", err)
	}

	newTok.TokenType = normalizeAuthType(newTok.TokenType)
	s.token = newTok
	return s.token.AccessToken, nil
}
