package distance

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/beaconpay/beaconpay/pkg/errors"
)

// LocalityConfig is the on-disk locality table: coordinates per
// locality name plus per-member home overrides.
type LocalityConfig struct {
	Localities Localities        `yaml:"localities"`
	Overrides  map[string]string `yaml:"overrides"`
}

// LoadLocalities reads a locality YAML file. A missing or empty table
// is a configuration error because banding would fall back to centroids
// for every member and silently degrade distance quality.
func LoadLocalities(path string) (*LocalityConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("localities", "cannot read "+path, err)
	}

	var cfg LocalityConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewConfigError("localities", "cannot parse "+path, err)
	}
	if len(cfg.Localities) == 0 {
		return nil, errors.NewConfigError("localities", "no localities in "+path, nil)
	}
	return &cfg, nil
}
