package httpclient

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
)

// HTTPDoer is the subset of *http.Client used by HTTPClient.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type HTTPClientConfig struct {
	// Doer replaces the default pooled *http.Client, Jar is then ignored
	Doer HTTPDoer
	// Jar keeps session cookies between calls
	Jar          http.CookieJar
	MaxIdleConns int
}

func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		MaxIdleConns: 50,
	}
}

func (c *HTTPClientConfig) WithDoer(doer HTTPDoer) *HTTPClientConfig {
	c.Doer = doer
	return c
}

func (c *HTTPClientConfig) WithJar(jar http.CookieJar) *HTTPClientConfig {
	c.Jar = jar
	return c
}

// WithSessionCookies attaches an in-memory cookie jar.
func (c *HTTPClientConfig) WithSessionCookies() (*HTTPClientConfig, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return c, fmt.Errorf("cookie jar: %w", err)
	}
	c.Jar = jar
	return c, nil
}
