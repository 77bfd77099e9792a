package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/joy-dx/banknet/config"
	"github.com/joy-dx/banknet/dto"
)

// -----------------------------------------------------------------------------
// HTTP TRANSPORT
// -----------------------------------------------------------------------------

// HTTPClient exchanges a prepared dto.Request for one HTTP round trip.
// Authentication, headers and status interpretation belong to the plugin
// chain; HTTPClient only builds the wire request and reads the response.

const NetClientHTTPRef dto.NetClientType = "net.client.http"

type HTTPClient struct {
	NetClient dto.NetClient `json:"net_client" yaml:"net_client"`
	netCfg    *config.NetSvcConfig
	client    HTTPDoer
}

func NewHTTPClient(ref string, netCfg *config.NetSvcConfig, cfg *HTTPClientConfig) *HTTPClient {
	if netCfg == nil {
		defaults := config.DefaultNetSvcConfig()
		netCfg = &defaults
	}
	if cfg == nil {
		defaults := DefaultHTTPClientConfig()
		cfg = &defaults
	}

	client := cfg.Doer
	if client == nil {
		client = &http.Client{
			Jar: cfg.Jar,
			Transport: &http.Transport{
				MaxIdleConns:        cfg.MaxIdleConns,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
				DisableKeepAlives:   false,
				Proxy:               http.ProxyFromEnvironment,
			},
		}
	}

	return &HTTPClient{
		netCfg: netCfg,
		NetClient: dto.NetClient{
			Name:        "HTTP Client",
			Ref:         ref,
			ClientType:  NetClientHTTPRef,
			Description: "Perform HTTP requests against the configured base URL",
		},
		client: client,
	}
}

func (c *HTTPClient) Ref() string {
	return c.NetClient.Ref
}

func (c *HTTPClient) Type() dto.NetClientType {
	return NetClientHTTPRef
}

// ProcessRequest performs exactly one HTTP call. Any status code is a
// successful exchange; only failures to build, send or read are errors.
func (c *HTTPClient) ProcessRequest(ctx context.Context, req *dto.Request) (dto.Response, error) {
	if req == nil {
		return dto.Response{}, dto.ErrNilRequest
	}

	target, err := resolveURL(c.netCfg.BaseURL, req.Path, req.Query)
	if err != nil {
		return dto.Response{}, err
	}

	if err := req.FinalizeBody(); err != nil {
		return dto.Response{}, err
	}

	var body io.Reader
	if len(req.BodyBytes) > 0 {
		body = bytes.NewReader(req.BodyBytes)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return dto.Response{}, fmt.Errorf("create request: %w", err)
	}

	applyHeaders(httpReq, req)

	httpResp, reqErr := c.client.Do(httpReq)
	if httpResp != nil {
		defer func() {
			_, _ = io.Copy(io.Discard, httpResp.Body) // drain fully for connection reuse
			_ = httpResp.Body.Close()
		}()
	}
	if reqErr != nil {
		return dto.Response{}, fmt.Errorf("perform request: %w", reqErr)
	}

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return dto.Response{}, fmt.Errorf("read body: %w", err)
	}

	return dto.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header.Clone(),
		Body:       bodyBytes,
	}, nil
}
