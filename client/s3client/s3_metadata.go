package s3client

import (
	"context"
	"net/http"
	"strings"

	"github.com/joy-dx/banknet/dto"
	"github.com/joy-dx/banknet/plugins"
)

// StaticMetadata adds default object metadata to every PUT sent through the
// S3 client registered under ClientRef. Metadata set by the caller wins.
type StaticMetadata struct {
	plugins.Base
	ClientRef string
	Meta      map[string]string
}

func NewStaticMetadata(clientRef string, meta map[string]string) *StaticMetadata {
	return &StaticMetadata{ClientRef: clientRef, Meta: meta}
}

func (s *StaticMetadata) Name() string { return "s3-static-metadata" }

func (s *StaticMetadata) Prepare(ctx context.Context, req *dto.Request) error {
	if req.ClientRef != s.ClientRef || !strings.EqualFold(req.Method, http.MethodPut) {
		return nil
	}
	for k, v := range s.Meta {
		name := metaHeaderPrefix + k
		if req.Header(name) == "" {
			req.SetHeader(name, v)
		}
	}
	return nil
}
