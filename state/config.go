package state

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// SimCfg is the simulator-level configuration. The topology itself stays in
// the plain-text edge format and is parsed separately.
type SimCfg struct {
	Host       string `yaml:"host,omitempty"`        // host every node binds on
	BasePort   int    `yaml:"base_port,omitempty"`   // 0 means ephemeral ports
	PortStride int    `yaml:"port_stride,omitempty"` // port distance between nodes
	Transport  string `yaml:"transport,omitempty"`   // tcp or kcp
	LogPath    string `yaml:"log_path,omitempty"`    // if not empty, also log to this file
	Verbose    bool   `yaml:"verbose,omitempty"`
}

func DefaultSimCfg() SimCfg {
	return SimCfg{
		Host:       "127.0.0.1",
		BasePort:   0,
		PortStride: 1,
		Transport:  TransportTCP,
	}
}

func LoadSimCfg(path string) (SimCfg, error) {
	cfg := DefaultSimCfg()
	file, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func SimConfigValidator(cfg *SimCfg) error {
	if cfg.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if cfg.Transport != TransportTCP && cfg.Transport != TransportKCP {
		return fmt.Errorf("unknown transport %q, must be %q or %q", cfg.Transport, TransportTCP, TransportKCP)
	}
	if cfg.BasePort < 0 || cfg.BasePort > 65535 {
		return fmt.Errorf("base_port %d is out of range", cfg.BasePort)
	}
	if cfg.BasePort != 0 && cfg.PortStride < 1 {
		return fmt.Errorf("port_stride must be at least 1")
	}
	return nil
}
