package banknet

import (
	"context"
	"errors"
	"fmt"

	"github.com/joy-dx/banknet/client/httpclient"
	"github.com/joy-dx/banknet/client/s3client"
	"github.com/joy-dx/banknet/dto"
	"github.com/joy-dx/banknet/relays"
)

func (s *NetSvc) State() *dto.NetState {
	names := make([]string, 0, len(s.plugins))
	for _, p := range s.plugins {
		names = append(names, p.Name())
	}

	return &dto.NetState{
		BaseURL:        s.cfg.BaseURL,
		UserAgent:      s.cfg.UserAgent,
		ExtraHeaders:   s.cfg.ExtraHeaders,
		Clients:        s.clientRefs(),
		Plugins:        names,
		RequestsStatus: s.requestState.GetAll(),
	}
}

// Hydrate validates the configuration and registers the default HTTP
// transport, plus the S3 transport when an S3 section is configured.
// Transports registered beforehand under the same refs are kept.
func (s *NetSvc) Hydrate(ctx context.Context) error {
	if s.cfg == nil {
		return errors.New("no net config")
	}
	if s.relay == nil {
		return errors.New("no relay implementation")
	}
	if err := s.cfg.Validate(); err != nil {
		return fmt.Errorf("net config: %w", err)
	}

	if _, err := s.client(dto.NET_DEFAULT_CLIENT_REF); err != nil {
		defaultClientCfg := httpclient.DefaultHTTPClientConfig()
		defaultClient := httpclient.NewHTTPClient(dto.NET_DEFAULT_CLIENT_REF, s.cfg, &defaultClientCfg)
		s.RegisterClient(dto.NET_DEFAULT_CLIENT_REF, defaultClient)
	}

	if s.cfg.S3.Bucket != "" || s.cfg.S3.Endpoint != "" {
		if _, err := s.client(dto.NET_S3_CLIENT_REF); err != nil {
			s3Cfg := s3client.S3ClientConfigFrom(s.cfg.S3)
			s3Client, err := s3client.NewS3Client(ctx, dto.NET_S3_CLIENT_REF, &s3Cfg)
			if err != nil {
				return fmt.Errorf("s3 client: %w", err)
			}
			s.RegisterClient(dto.NET_S3_CLIENT_REF, s3Client)
		}
	}

	s.relay.Debug(relays.RlyNetLog{Msg: fmt.Sprintf("Net service hydrated with %d plugins", len(s.plugins))})
	return nil
}
