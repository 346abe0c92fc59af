package privacy

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PolicyConfig holds the fixed tokens and disclosure thresholds used by the
// role filter and generalizer. Values are loadable from YAML so deployments
// can tune redaction wording without a rebuild.
type PolicyConfig struct {
	AnonymousToken   string `yaml:"anonymous_token" json:"anonymous_token"`
	RedactionText    string `yaml:"redaction_text" json:"redaction_text"`
	ShareableLevel   string `yaml:"shareable_level" json:"shareable_level"`
	MinEmployeeCount int    `yaml:"min_employee_count" json:"min_employee_count"`
}

// DefaultPolicy returns the built-in policy: anonymous owner tokens, a fixed
// redaction string and a minimum disclosure group of five employees.
func DefaultPolicy() PolicyConfig {
	return PolicyConfig{
		AnonymousToken:   "anonymous",
		RedactionText:    "Details redacted for privacy",
		ShareableLevel:   "shareable",
		MinEmployeeCount: 5,
	}
}

// LoadPolicy reads a policy file, falling back to defaults for an empty path
// and for any field the file leaves unset.
func LoadPolicy(path string) (PolicyConfig, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultPolicy(), err
	}

	var cfg PolicyConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return PolicyConfig{}, err
	}
	if cfg == (PolicyConfig{}) {
		return PolicyConfig{}, errors.New("empty privacy policy file")
	}

	defaults := DefaultPolicy()
	if cfg.AnonymousToken == "" {
		cfg.AnonymousToken = defaults.AnonymousToken
	}
	if cfg.RedactionText == "" {
		cfg.RedactionText = defaults.RedactionText
	}
	if cfg.ShareableLevel == "" {
		cfg.ShareableLevel = defaults.ShareableLevel
	}
	if cfg.MinEmployeeCount <= 0 {
		cfg.MinEmployeeCount = defaults.MinEmployeeCount
	}
	return cfg, nil
}
