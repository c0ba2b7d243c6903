// Where: internal/meta/meta.go
// What: CLI-local metadata constants.
// Why: Keep identity and fixed platform paths in one place.
package meta

const (
	// Project Identity
	AppName = "smvllm"

	// SageMaker platform paths
	ModelMountPath = "/opt/ml/model"

	// Fetcher defaults
	DefaultLocalModelDir = "/opt/models"
	DefaultHubCLI        = "huggingface-cli"
	DefaultHubRevision   = "main"

	// Serving defaults
	DefaultAPIHost    = "0.0.0.0"
	DefaultAPIPort    = 8080
	DefaultServerBin  = "vllm"
	DefaultVariant    = "default"
	DefaultEndpoint   = "vllm-endpoint"
	DefaultRegion     = "us-east-1"
	DefaultHealthWait = 600

	DefaultInstanceCount = 1
)
