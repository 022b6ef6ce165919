package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/safing/sysresolvers/service/netenv"
)

type settings struct {
	Log       string         `yaml:"log"`
	Discovery netenv.Options `yaml:"discovery"`
}

func defaultSettings() *settings {
	return &settings{
		Log:       "warning",
		Discovery: *netenv.DefaultOptions(),
	}
}

// loadSettings returns the default settings overlaid with the given file.
// An empty path returns the defaults.
func loadSettings(path string) (*settings, error) {
	s := defaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if s.Discovery.ResolvConfPath == "" {
		s.Discovery.ResolvConfPath = netenv.DefaultResolvConfPath
	}
	return s, nil
}
