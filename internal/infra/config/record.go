// Where: internal/infra/config/record.go
// What: Deployment record writer.
// Why: Keep a reviewable trace of what was created, since nothing is rolled back.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DeployRecord is written after a deploy attempt, successful or not.
type DeployRecord struct {
	Version           int               `yaml:"version"`
	CreatedAt         string            `yaml:"created_at"`
	Region            string            `yaml:"region"`
	Endpoint          string            `yaml:"endpoint"`
	EndpointConfig    string            `yaml:"endpoint_config"`
	Model             string            `yaml:"model"`
	ModelSource       string            `yaml:"model_source"`
	Mode              string            `yaml:"mode"`
	ModelARN          string            `yaml:"model_arn,omitempty"`
	EndpointConfigARN string            `yaml:"endpoint_config_arn,omitempty"`
	EndpointARN       string            `yaml:"endpoint_arn,omitempty"`
	Environment       map[string]string `yaml:"environment"`
	Error             string            `yaml:"error,omitempty"`
}

// WriteDeployRecord writes record to path as YAML, creating parent directories.
func WriteDeployRecord(path string, record DeployRecord) error {
	if record.Version == 0 {
		record.Version = 1
	}
	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode deploy record: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create record dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write deploy record: %w", err)
	}
	return nil
}
