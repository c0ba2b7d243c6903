// Where: internal/infra/config/deploy_file.go
// What: Deploy configuration file loader.
// Why: Keep long flag lists in a reviewed YAML file; validate it against a schema first.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"sigs.k8s.io/yaml"
)

//go:embed deploy.schema.json
var deploySchemaJSON []byte

const deploySchemaURL = "deploy.schema.json"

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

// DeployFile mirrors the deploy flags. Pointer fields distinguish "absent" from zero.
type DeployFile struct {
	Region             string       `json:"region,omitempty"`
	InstanceType       string       `json:"instance_type,omitempty"`
	InstanceCount      *int         `json:"instance_count,omitempty"`
	RoleARN            string       `json:"role_arn,omitempty"`
	ImageURI           string       `json:"image_uri,omitempty"`
	EndpointName       string       `json:"endpoint_name,omitempty"`
	ModelID            string       `json:"model_id,omitempty"`
	HFToken            string       `json:"hf_token,omitempty"`
	Sync               *bool        `json:"sync,omitempty"`
	HealthCheckTimeout *int         `json:"health_check_timeout,omitempty"`
	VariantName        string       `json:"variant_name,omitempty"`
	Async              AsyncSection `json:"async,omitempty"`
	Names              NameSection  `json:"names,omitempty"`
	Tuning             TuningFile   `json:"tuning,omitempty"`
}

type AsyncSection struct {
	S3OutputPath             string `json:"s3_output_path,omitempty"`
	S3FailurePath            string `json:"s3_failure_path,omitempty"`
	MaxConcurrentInvocations *int   `json:"max_concurrent_invocations_per_instance,omitempty"`
}

type NameSection struct {
	Model  string `json:"model,omitempty"`
	Config string `json:"config,omitempty"`
}

type TuningFile struct {
	MaxModelLen            *int     `json:"max_model_len,omitempty"`
	TensorParallelSize     *int     `json:"tensor_parallel_size,omitempty"`
	GPUMemoryUtilization   *float64 `json:"gpu_memory_utilization,omitempty"`
	SwapSpace              *int     `json:"swap_space,omitempty"`
	MaxNumSeqs             *int     `json:"max_num_seqs,omitempty"`
	DisableCustomAllReduce *bool    `json:"disable_custom_all_reduce,omitempty"`
	EnablePrefixCaching    *bool    `json:"enable_prefix_caching,omitempty"`
	DisableSlidingWindow   *bool    `json:"disable_sliding_window,omitempty"`
	EnableChunkedPrefill   *bool    `json:"enable_chunked_prefill,omitempty"`
}

// LoadDeployFile reads and validates a deploy configuration file.
func LoadDeployFile(path string) (DeployFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return DeployFile{}, fmt.Errorf("read deploy config: %w", err)
	}
	file, err := ParseDeployFile(content)
	if err != nil {
		return DeployFile{}, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// ParseDeployFile validates YAML content against the deploy schema and decodes it.
func ParseDeployFile(content []byte) (DeployFile, error) {
	sch, err := loadSchema()
	if err != nil {
		return DeployFile{}, err
	}

	jsonData, err := yaml.YAMLToJSON(content)
	if err != nil {
		return DeployFile{}, fmt.Errorf("convert yaml to json: %w", err)
	}
	if len(bytes.TrimSpace(jsonData)) == 0 || string(bytes.TrimSpace(jsonData)) == "null" {
		return DeployFile{}, nil
	}

	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return DeployFile{}, fmt.Errorf("decode json: %w", err)
	}
	if err := sch.Validate(document); err != nil {
		return DeployFile{}, err
	}

	var file DeployFile
	if err := json.Unmarshal(jsonData, &file); err != nil {
		return DeployFile{}, fmt.Errorf("decode deploy config: %w", err)
	}
	return file, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(deploySchemaURL, bytes.NewReader(deploySchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("load deploy schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(deploySchemaURL)
	})
	return compiledSchema, schemaErr
}
