package dto

import (
	"net/http"
	"time"
)

type NetClientType string

const (
	NET_DEFAULT_CLIENT_REF = "net.client.default"
	NET_S3_CLIENT_REF      = "net.client.s3"
)

// NetClient describes a registered transport.
type NetClient struct {
	Name        string        `json:"name" yaml:"name"`
	Ref         string        `json:"ref" yaml:"ref"`
	ClientType  NetClientType `json:"client_type" yaml:"client_type"`
	Description string        `json:"description" yaml:"description"`
}

type RequestStage string

const (
	STAGE_INIT      RequestStage = "init"
	STAGE_PREPARE   RequestStage = "prepare"
	STAGE_TRANSPORT RequestStage = "transport"
	STAGE_PROCESS   RequestStage = "process"
	STAGE_DONE      RequestStage = "done"
	STAGE_ERROR     RequestStage = "error"
)

// Finished reports whether the request left the pipeline.
func (s RequestStage) Finished() bool {
	return s == STAGE_DONE || s == STAGE_ERROR
}

// RequestStatus is the last known pipeline position of a request target.
type RequestStatus struct {
	Method     string       `json:"method" yaml:"method"`
	Target     string       `json:"target" yaml:"target"`
	Stage      RequestStage `json:"stage" yaml:"stage"`
	StatusCode int          `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Error      string       `json:"error,omitempty" yaml:"error,omitempty"`
	UpdatedAt  time.Time    `json:"updated_at" yaml:"updated_at"`
}

type NetState struct {
	BaseURL        string                   `json:"net_base_url,omitempty" yaml:"net_base_url,omitempty"`
	UserAgent      string                   `json:"net_user_agent,omitempty" yaml:"net_user_agent,omitempty"`
	ExtraHeaders   ExtraHeaders             `json:"net_extra_headers,omitempty" yaml:"net_extra_headers,omitempty"`
	Clients        []string                 `json:"net_clients,omitempty" yaml:"net_clients,omitempty"`
	Plugins        []string                 `json:"net_plugins,omitempty" yaml:"net_plugins,omitempty"`
	RequestsStatus map[string]RequestStatus `json:"net_requests_status,omitempty" yaml:"net_requests_status,omitempty"`
}

type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Empty is the expected response type of calls whose body is irrelevant.
type Empty struct{}
