package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/yndnr/jubilee-go/internal/core/domain"
)

func validConfig() Config {
	return Config{
		Host:          DefaultHost,
		Port:          DefaultPort,
		WorkerThreads: DefaultWorkerThreads,
		Environment:   DefaultEnvironment,
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantMsg string
	}{
		{"valid", func(c *Config) {}, ""},
		{"cluster port", func(c *Config) { c.ClusterPort = 7946 }, ""},
		{"no environment", func(c *Config) { c.Environment = "" }, ""},
		{"no host", func(c *Config) { c.Host = "" }, "required: host"},
		{"port zero", func(c *Config) { c.Port = 0 }, "too low (< 1): port=0"},
		{"port too high", func(c *Config) { c.Port = 70000 }, "too high (> 65535): port=70000"},
		{"no workers", func(c *Config) { c.WorkerThreads = 0 }, "too low (< 1): worker_threads=0"},
		{"privileged cluster port", func(c *Config) { c.ClusterPort = 80 }, "too low (< 1025): cluster_port=80"},
		{"unknown environment", func(c *Config) { c.Environment = "staging" }, "environment=staging"},
		{"negative linger", func(c *Config) { c.TCP.SoLinger = -1 }, "tcp.so_linger=-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := Verify(&cfg)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Verify() error = %v", err)
				}
				return
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("Verify() error = %v, want ErrValidation", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Verify() error = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestVerify_Nil(t *testing.T) {
	if err := Verify(nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Verify(nil) error = %v, want ErrValidation", err)
	}
}

func TestSanitize(t *testing.T) {
	cfg := validConfig()
	cfg.SSLPassword = "changeit"

	s := Sanitize(&cfg)
	if s.SSLPassword != "ch****it" {
		t.Errorf("SSLPassword = %q, want ch****it", s.SSLPassword)
	}
	if cfg.SSLPassword != "changeit" {
		t.Error("Sanitize modified its argument")
	}

	cfg.SSLPassword = ""
	if got := Sanitize(&cfg).SSLPassword; got != "" {
		t.Errorf("empty password sanitized to %q", got)
	}
}

func TestToDiscoveryConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Host = "[::1]"
	cfg.Port = 3000
	cfg.ClusterPort = 7946

	dc, err := ToDiscoveryConfig(&cfg, []string{"10.0.0.2:7946"}, quietLogger())
	if err != nil {
		t.Fatalf("ToDiscoveryConfig() error = %v", err)
	}
	if !strings.HasPrefix(dc.NodeName, NodeNamePrefix) {
		t.Errorf("NodeName = %q", dc.NodeName)
	}
	if dc.BindAddr != "::1" || dc.BindPort != 7946 {
		t.Errorf("bind = %s:%d, want ::1:7946", dc.BindAddr, dc.BindPort)
	}
	if dc.ServiceAddr != "[::1]:3000" {
		t.Errorf("ServiceAddr = %q", dc.ServiceAddr)
	}
	if len(dc.SeedNodes) != 1 {
		t.Errorf("SeedNodes = %v", dc.SeedNodes)
	}
	if err := dc.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestToDiscoveryConfig_Disabled(t *testing.T) {
	cfg := validConfig()
	if _, err := ToDiscoveryConfig(&cfg, nil, nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}
