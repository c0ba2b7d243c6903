// Where: internal/command/deploy_inputs.go
// What: Deploy flag definitions and their merge with the config file.
// Why: A YAML file may supply any flag; explicitly passed flags win.
package command

import (
	"strings"
	"time"

	"github.com/poruru-code/smvllm/internal/domain/deployment"
	"github.com/poruru-code/smvllm/internal/infra/config"
	"github.com/poruru-code/smvllm/internal/meta"
)

// ModelFlags are shared by deploy and local: everything that shapes the
// container environment.
type ModelFlags struct {
	ModelID      string `name:"model-id" help:"Model hub identifier or s3:// prefix"`
	HFToken      string `name:"hf-token" env:"HF_TOKEN" help:"Model hub token (default: HF_TOKEN)"`
	InstanceType string `name:"instance-type" help:"SageMaker instance type (e.g. ml.g6.xlarge)"`

	MaxModelLen            *int     `name:"max-model-len" help:"Maximum model context length"`
	TensorParallelSize     *int     `name:"tensor-parallel-size" help:"Number of GPUs for tensor parallelism"`
	GPUMemoryUtilization   *float64 `name:"gpu-memory-utilization" help:"Fraction of GPU memory to use (0,1]"`
	SwapSpace              *int     `name:"swap-space" help:"CPU swap space per GPU in GiB"`
	MaxNumSeqs             *int     `name:"max-num-seqs" help:"Maximum number of sequences per iteration"`
	DisableCustomAllReduce *bool    `name:"disable-custom-all-reduce" help:"Disable custom all-reduce kernel"`
	EnablePrefixCaching    *bool    `name:"enable-prefix-caching" help:"Enable automatic prefix caching"`
	DisableSlidingWindow   *bool    `name:"disable-sliding-window" help:"Disable sliding window attention"`
	EnableChunkedPrefill   *bool    `name:"enable-chunked-prefill" help:"Enable chunked prefill"`

	Config string `name:"config" short:"c" help:"YAML deploy configuration file"`
}

// DeployCmd defines the deploy command flags.
type DeployCmd struct {
	ModelFlags `embed:""`

	Region             string `name:"region" env:"AWS_REGION" help:"AWS region (default: us-east-1)"`
	InstanceCount      *int   `name:"instance-count" help:"Initial instance count (default: 1)"`
	RoleARN            string `name:"role-arn" help:"SageMaker execution role ARN"`
	ImageURI           string `name:"image-uri" help:"Serving container image URI"`
	EndpointName       string `name:"endpoint-name" help:"Endpoint name (default: vllm-endpoint)"`
	Sync               *bool  `name:"sync" help:"Create a real-time endpoint instead of an async one (--sync=false overrides the config file)"`
	S3OutputPath       string `name:"s3-output-path" help:"Async inference output location (s3://)"`
	S3FailurePath      string `name:"s3-failure-path" help:"Async inference failure location (s3://)"`
	MaxConcurrent      *int   `name:"max-concurrent-invocations-per-instance" help:"Async concurrency limit per instance"`
	HealthCheckTimeout *int   `name:"health-check-timeout" help:"Container startup health check timeout in seconds (default: 600)"`

	DryRun      bool          `name:"dry-run" help:"Print the plan without creating resources"`
	Wait        bool          `name:"wait" help:"Wait until the endpoint is InService"`
	WaitTimeout time.Duration `name:"wait-timeout" default:"30m" help:"Maximum time to wait with --wait"`
	Yes         bool          `short:"y" name:"yes" help:"Skip the confirmation prompt"`
	Record      string        `name:"record" help:"Write a YAML record of the created resources"`
}

// loadDeployFile returns the parsed config file, or the zero value when none is given.
func loadDeployFile(path string) (config.DeployFile, error) {
	if strings.TrimSpace(path) == "" {
		return config.DeployFile{}, nil
	}
	return config.LoadDeployFile(path)
}

// resolveDeploySpec merges file values under the flags. A value given on the
// command line always wins, including false and zero. Model source parsing
// errors surface here; everything else is validated by the plan.
func resolveDeploySpec(cmd DeployCmd, file config.DeployFile) (deployment.Spec, error) {
	spec := deployment.Spec{
		Region:             firstNonEmpty(cmd.Region, file.Region),
		InstanceType:       firstNonEmpty(cmd.InstanceType, file.InstanceType),
		InstanceCount:      intOr(cmd.InstanceCount, file.InstanceCount, meta.DefaultInstanceCount),
		RoleARN:            firstNonEmpty(cmd.RoleARN, file.RoleARN),
		ImageURI:           firstNonEmpty(cmd.ImageURI, file.ImageURI),
		EndpointName:       firstNonEmpty(cmd.EndpointName, file.EndpointName),
		HubToken:           firstNonEmpty(cmd.HFToken, file.HFToken),
		Sync:               firstBool(cmd.Sync, file.Sync),
		HealthCheckTimeout: intOr(cmd.HealthCheckTimeout, file.HealthCheckTimeout, meta.DefaultHealthWait),
		VariantName:        file.VariantName,
		Names: deployment.NameTemplates{
			Model:  file.Names.Model,
			Config: file.Names.Config,
		},
		Async: deployment.AsyncConfig{
			OutputPath:               firstNonEmpty(cmd.S3OutputPath, file.Async.S3OutputPath),
			FailurePath:              firstNonEmpty(cmd.S3FailurePath, file.Async.S3FailurePath),
			MaxConcurrentInvocations: intOr(cmd.MaxConcurrent, file.Async.MaxConcurrentInvocations, 0),
		},
		Tuning: resolveTuning(cmd.ModelFlags, file.Tuning),
	}
	if raw := firstNonEmpty(cmd.ModelID, file.ModelID); raw != "" {
		source, err := deployment.ParseModelSource(raw)
		if err != nil {
			return deployment.Spec{}, err
		}
		spec.Model = source
	}
	return spec, nil
}

func resolveTuning(flags ModelFlags, file config.TuningFile) deployment.Tuning {
	return deployment.Tuning{
		MaxModelLen:            firstInt(flags.MaxModelLen, file.MaxModelLen),
		TensorParallelSize:     firstInt(flags.TensorParallelSize, file.TensorParallelSize),
		GPUMemoryUtilization:   firstFloat(flags.GPUMemoryUtilization, file.GPUMemoryUtilization),
		SwapSpace:              firstInt(flags.SwapSpace, file.SwapSpace),
		MaxNumSeqs:             firstInt(flags.MaxNumSeqs, file.MaxNumSeqs),
		DisableCustomAllReduce: firstBool(flags.DisableCustomAllReduce, file.DisableCustomAllReduce),
		EnablePrefixCaching:    firstBool(flags.EnablePrefixCaching, file.EnablePrefixCaching),
		DisableSlidingWindow:   firstBool(flags.DisableSlidingWindow, file.DisableSlidingWindow),
		EnableChunkedPrefill:   firstBool(flags.EnableChunkedPrefill, file.EnableChunkedPrefill),
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func intOr(flag, file *int, fallback int) int {
	if value := firstInt(flag, file); value != nil {
		return *value
	}
	return fallback
}

func firstInt(flag, file *int) *int {
	if flag != nil {
		return flag
	}
	return file
}

func firstFloat(flag, file *float64) *float64 {
	if flag != nil {
		return flag
	}
	return file
}

func firstBool(flag, file *bool) bool {
	if flag != nil {
		return *flag
	}
	return file != nil && *file
}
