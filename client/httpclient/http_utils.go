package httpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/joy-dx/banknet/dto"
)

// resolveURL joins path onto baseURL and merges query into any query the
// result already carries. Absolute paths bypass baseURL.
func resolveURL(baseURL, path string, query url.Values) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse path %q: %w", path, err)
	}

	u := ref
	if !ref.IsAbs() {
		if baseURL == "" {
			return "", fmt.Errorf("relative path %q without base url", path)
		}
		base, err := url.Parse(baseURL)
		if err != nil {
			return "", fmt.Errorf("parse base url %q: %w", baseURL, err)
		}
		// keep any path prefix of the base, "https://api/v1" + "accounts" -> "/v1/accounts"
		joined := *base
		joined.Path = strings.TrimSuffix(base.Path, "/") + "/" + strings.TrimPrefix(ref.Path, "/")
		joined.RawPath = ""
		joined.RawQuery = ref.RawQuery
		joined.Fragment = ref.Fragment
		u = &joined
	}

	if len(query) > 0 {
		merged := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				merged.Add(k, v)
			}
		}
		u.RawQuery = merged.Encode()
	}
	return u.String(), nil
}

// applyHeaders copies request headers onto the wire request, filling in the
// content type when no plugin set one.
func applyHeaders(httpReq *http.Request, req *dto.Request) {
	for k, vs := range req.Headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if req.ContentType != "" && httpReq.Header.Get("Content-Type") == "" && len(req.BodyBytes) > 0 {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
}
