// Where: internal/provisioner/plan.go
// What: Plan construction from a deployment Spec.
// Why: Validate and render everything before the first API call.
package provisioner

import (
	"fmt"

	"github.com/poruru-code/smvllm/internal/domain/deployment"
)

// Plan is the fully rendered set of create requests.
type Plan struct {
	Spec           deployment.Spec
	Names          deployment.ResourceNames
	Environment    deployment.Environment
	Model          ModelRequest
	EndpointConfig EndpointConfigRequest
	Endpoint       EndpointRequest
}

// BuildPlan validates spec and renders the three create requests.
func BuildPlan(spec deployment.Spec) (Plan, error) {
	spec = spec.WithDefaults()
	if err := spec.Validate(); err != nil {
		return Plan{}, fmt.Errorf("invalid deployment: %w", err)
	}
	names, err := deployment.ResolveNames(spec)
	if err != nil {
		return Plan{}, err
	}
	env := deployment.BuildEnvironment(spec)

	plan := Plan{
		Spec:        spec,
		Names:       names,
		Environment: env,
		Model: ModelRequest{
			Name:        names.Model,
			Image:       spec.ImageURI,
			RoleARN:     spec.RoleARN,
			Environment: env,
			S3ModelURI:  spec.Model.S3URI,
		},
		EndpointConfig: EndpointConfigRequest{
			Name:                      names.EndpointConfig,
			ModelName:                 names.Model,
			VariantName:               spec.VariantName,
			InstanceType:              spec.InstanceType,
			InstanceCount:             spec.InstanceCount,
			HealthCheckTimeoutSeconds: spec.HealthCheckTimeout,
		},
		Endpoint: EndpointRequest{
			Name:               names.Endpoint,
			EndpointConfigName: names.EndpointConfig,
		},
	}
	if !spec.Sync {
		plan.EndpointConfig.Async = &AsyncRequest{
			OutputPath:               spec.Async.OutputPath,
			FailurePath:              spec.Async.FailurePath,
			MaxConcurrentInvocations: spec.Async.MaxConcurrentInvocations,
		}
	}
	return plan, nil
}
