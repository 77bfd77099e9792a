package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joy-dx/banknet/dto"
	"github.com/joy-dx/banknet/relays"
	relayDTO "github.com/joy-dx/relay/dto"
	"gopkg.in/yaml.v3"
)

type ReachabilityConfig struct {
	// ProbeNetwork/ProbeAddress are dialed to decide whether the network path is up
	ProbeNetwork  string        `json:"probe_network" yaml:"probe_network"`
	ProbeAddress  string        `json:"probe_address" yaml:"probe_address"`
	ProbeInterval time.Duration `json:"probe_interval" yaml:"probe_interval"`
	// ConfirmAttempts failed probes in a row are needed before the path is reported down
	ConfirmAttempts int           `json:"confirm_attempts" yaml:"confirm_attempts"`
	ConfirmDelay    time.Duration `json:"confirm_delay" yaml:"confirm_delay"`
	// InitialConnected is the snapshot reported before the first probe completes
	InitialConnected bool `json:"initial_connected" yaml:"initial_connected"`
}

type S3Config struct {
	Region         string `json:"region" yaml:"region"`
	Bucket         string `json:"bucket" yaml:"bucket"`
	Endpoint       string `json:"endpoint" yaml:"endpoint"`
	ForcePathStyle bool   `json:"force_path_style" yaml:"force_path_style"`
	// Metadata is stamped on every object uploaded through the S3 client
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type NetSvcConfig struct {
	BaseURL      string           `json:"net_base_url" yaml:"net_base_url"`
	UserAgent    string           `json:"net_user_agent" yaml:"net_user_agent"`
	ExtraHeaders dto.ExtraHeaders `json:"net_extra_headers" yaml:"net_extra_headers"`
	// LogVerbosity none, basic, headers or body
	LogVerbosity string             `json:"net_log_verbosity" yaml:"net_log_verbosity"`
	Reachability ReachabilityConfig `json:"net_reachability" yaml:"net_reachability"`
	S3           S3Config           `json:"net_s3" yaml:"net_s3"`
	// RequestHistory caps how many finished requests State keeps
	RequestHistory int `json:"net_request_history" yaml:"net_request_history"`

	relay relayDTO.RelayInterface
}

const DefaultRequestHistory = 256

func DefaultNetSvcConfig() NetSvcConfig {
	return NetSvcConfig{
		UserAgent:      "banknet/1.0",
		ExtraHeaders:   dto.ExtraHeaders{},
		LogVerbosity:   "basic",
		RequestHistory: DefaultRequestHistory,
		Reachability: ReachabilityConfig{
			ProbeNetwork:     "tcp",
			ProbeAddress:     "1.1.1.1:443",
			ProbeInterval:    5 * time.Second,
			ConfirmAttempts:  2,
			ConfirmDelay:     250 * time.Millisecond,
			InitialConnected: true,
		},
		relay: relays.NopRelay{},
	}
}

// LoadNetSvcConfig reads a YAML file on top of DefaultNetSvcConfig.
func LoadNetSvcConfig(path string) (NetSvcConfig, error) {
	cfg := DefaultNetSvcConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if cfg.ExtraHeaders == nil {
		cfg.ExtraHeaders = dto.ExtraHeaders{}
	}
	return cfg, cfg.Validate()
}

func (c *NetSvcConfig) Validate() error {
	if c.Reachability.ProbeInterval < 0 {
		return errors.New("net_reachability.probe_interval must not be negative")
	}
	if c.Reachability.ConfirmAttempts < 0 {
		return errors.New("net_reachability.confirm_attempts must not be negative")
	}
	if c.RequestHistory < 0 {
		return errors.New("net_request_history must not be negative")
	}
	switch c.LogVerbosity {
	case "", "none", "basic", "headers", "body":
	default:
		return fmt.Errorf("unknown net_log_verbosity %q", c.LogVerbosity)
	}
	return nil
}

// Relay returns the configured relay, a no-op one when none was set.
func (c *NetSvcConfig) Relay() relayDTO.RelayInterface {
	if c.relay == nil {
		return relays.NopRelay{}
	}
	return c.relay
}

func (c *NetSvcConfig) WithRelay(relay relayDTO.RelayInterface) *NetSvcConfig {
	c.relay = relay
	return c
}

func (c *NetSvcConfig) WithBaseURL(url string) *NetSvcConfig {
	c.BaseURL = url
	return c
}

func (c *NetSvcConfig) WithUserAgent(agent string) *NetSvcConfig {
	c.UserAgent = agent
	return c
}

func (c *NetSvcConfig) WithExtraHeaders(headers dto.ExtraHeaders) *NetSvcConfig {
	c.ExtraHeaders = headers
	return c
}

func (c *NetSvcConfig) WithLogVerbosity(level string) *NetSvcConfig {
	c.LogVerbosity = level
	return c
}

func (c *NetSvcConfig) WithProbeAddress(network, address string) *NetSvcConfig {
	c.Reachability.ProbeNetwork = network
	c.Reachability.ProbeAddress = address
	return c
}

func (c *NetSvcConfig) WithS3(s3 S3Config) *NetSvcConfig {
	c.S3 = s3
	return c
}
