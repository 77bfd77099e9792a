package plugins

import (
	"context"

	"github.com/google/uuid"
	"github.com/joy-dx/banknet/dto"
)

const DefaultRequestIDHeader = "X-Request-ID"

// StaticHeaders injects fixed headers into every request, overriding values
// set by the caller.
type StaticHeaders struct {
	Base
	Headers map[string]string
}

// NewStaticHeaders merges the configured extra headers with a User-Agent.
func NewStaticHeaders(extra dto.ExtraHeaders, userAgent string) *StaticHeaders {
	headers := make(map[string]string, len(extra)+1)
	if userAgent != "" {
		headers["User-Agent"] = userAgent
	}
	for k, v := range extra {
		headers[k] = v
	}
	return &StaticHeaders{Headers: headers}
}

func (s *StaticHeaders) Name() string { return "static-headers" }

func (s *StaticHeaders) Prepare(ctx context.Context, req *dto.Request) error {
	for k, v := range s.Headers {
		req.SetHeader(k, v)
	}
	return nil
}

// RequestID tags each request with a unique correlation id unless the caller
// already provided one.
type RequestID struct {
	Base
	Header string
}

func NewRequestID() *RequestID {
	return &RequestID{Header: DefaultRequestIDHeader}
}

func (r *RequestID) Name() string { return "request-id" }

func (r *RequestID) Prepare(ctx context.Context, req *dto.Request) error {
	header := r.Header
	if header == "" {
		header = DefaultRequestIDHeader
	}
	if req.Header(header) == "" {
		req.SetHeader(header, uuid.NewString())
	}
	return nil
}
