package config

import (
	"fmt"
	"os"
	"trip-log-service/internal/domain"

	"gopkg.in/yaml.v3"
)

type hosProfileFile struct {
	Name  string          `yaml:"name"`
	Rules domain.HOSRules `yaml:"rules"`
}

// LoadHOSRules reads a regulatory profile from YAML. Fields missing from the
// file keep their DefaultHOSRules values. An empty path returns the defaults.
//
//	name: property-70-8
//	rules:
//	  max_cycle_hours: 60
func LoadHOSRules(path string) (domain.HOSRules, error) {
	rules := domain.DefaultHOSRules()
	if path == "" {
		return rules, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.HOSRules{}, fmt.Errorf("load hos profile: read %q: %w", path, err)
	}

	// Decoding over the defaults leaves absent keys untouched.
	f := hosProfileFile{Rules: rules}
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return domain.HOSRules{}, fmt.Errorf("load hos profile: parse %q: %w", path, err)
	}

	if err := f.Rules.Validate(); err != nil {
		return domain.HOSRules{}, fmt.Errorf("load hos profile %q: %w", path, err)
	}
	return f.Rules, nil
}
