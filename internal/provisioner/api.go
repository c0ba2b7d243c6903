// Where: internal/provisioner/api.go
// What: Control-plane request types and the SageMaker API subset.
// Why: Keep SDK types out of the runner so tests can use fakes.
package provisioner

import (
	"context"
	"time"
)

// ModelRequest maps to CreateModel.
type ModelRequest struct {
	Name        string
	Image       string
	RoleARN     string
	Environment map[string]string
	// S3ModelURI, when set, is attached as an uncompressed S3Prefix ModelDataSource.
	S3ModelURI string
}

// EndpointConfigRequest maps to CreateEndpointConfig.
type EndpointConfigRequest struct {
	Name                      string
	ModelName                 string
	VariantName               string
	InstanceType              string
	InstanceCount             int
	HealthCheckTimeoutSeconds int
	Async                     *AsyncRequest
}

// AsyncRequest maps to AsyncInferenceConfig.
type AsyncRequest struct {
	OutputPath               string
	FailurePath              string
	MaxConcurrentInvocations int
}

// EndpointRequest maps to CreateEndpoint.
type EndpointRequest struct {
	Name               string
	EndpointConfigName string
}

// SageMakerAPI is the subset of the SageMaker control plane used by the runner.
type SageMakerAPI interface {
	CreateModel(ctx context.Context, input ModelRequest) (string, error)
	CreateEndpointConfig(ctx context.Context, input EndpointConfigRequest) (string, error)
	CreateEndpoint(ctx context.Context, input EndpointRequest) (string, error)
	WaitInService(ctx context.Context, endpointName string, timeout time.Duration) error
}
