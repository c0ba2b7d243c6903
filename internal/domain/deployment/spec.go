// Where: internal/domain/deployment/spec.go
// What: Deployment inputs for a SageMaker vLLM endpoint.
// Why: One value carries every flag and config-file field into env building and provisioning.
package deployment

import (
	"github.com/poruru-code/smvllm/internal/meta"
)

// Tuning holds optional vLLM serving parameters. nil/false means "leave the
// server default alone".
type Tuning struct {
	MaxModelLen            *int
	TensorParallelSize     *int
	GPUMemoryUtilization   *float64
	SwapSpace              *int
	MaxNumSeqs             *int
	DisableCustomAllReduce bool
	EnablePrefixCaching    bool
	DisableSlidingWindow   bool
	EnableChunkedPrefill   bool
}

// AsyncConfig configures SageMaker asynchronous inference.
type AsyncConfig struct {
	OutputPath               string
	FailurePath              string
	MaxConcurrentInvocations int
}

// Spec describes one endpoint deployment.
type Spec struct {
	Region             string
	InstanceType       string
	InstanceCount      int
	RoleARN            string
	ImageURI           string
	EndpointName       string
	Model              ModelSource
	HubToken           string
	Sync               bool
	Async              AsyncConfig
	HealthCheckTimeout int
	VariantName        string
	Names              NameTemplates
	Tuning             Tuning
}

// WithDefaults fills unset optional names. Numeric fields are left as given
// so that an explicit zero still reaches Validate.
func (s Spec) WithDefaults() Spec {
	if s.Region == "" {
		s.Region = meta.DefaultRegion
	}
	if s.EndpointName == "" {
		s.EndpointName = meta.DefaultEndpoint
	}
	if s.VariantName == "" {
		s.VariantName = meta.DefaultVariant
	}
	return s
}

// Int returns a pointer to v. Convenience for building Tuning values.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
