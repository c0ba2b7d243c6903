// Where: internal/constants/env.go
// What: Environment variable naming constants.
// Why: The provisioner writes these keys and the launcher/fetcher read them back.
package constants

const (
	// Container environment written by the provisioner
	EnvAPIHost       = "API_HOST"
	EnvAPIPort       = "API_PORT"
	EnvModelID       = "MODEL_ID"
	EnvHFToken       = "HF_TOKEN"
	EnvInstanceType  = "INSTANCE_TYPE"
	EnvSageMakerDir  = "SM_MODEL_DIR"
	EnvModelRevision = "MODEL_REVISION"
	EnvHubEndpoint   = "HF_ENDPOINT"
	EnvHubCLI        = "HF_CLI_BIN"

	// Serving tuning
	EnvMaxModelLen            = "MAX_MODEL_LEN"
	EnvTensorParallelSize     = "TENSOR_PARALLEL_SIZE"
	EnvGPUMemoryUtilization   = "GPU_MEMORY_UTILIZATION"
	EnvSwapSpace              = "SWAP_SPACE"
	EnvMaxNumSeqs             = "MAX_NUM_SEQS"
	EnvDisableCustomAllReduce = "DISABLE_CUSTOM_ALL_REDUCE"
	EnvEnablePrefixCaching    = "ENABLE_PREFIX_CACHING"
	EnvDisableSlidingWindow   = "DISABLE_SLIDING_WINDOW"
	EnvEnableChunkedPrefill   = "ENABLE_CHUNKED_PREFILL"

	// Launcher
	EnvServerBin = "VLLM_BIN"

	// AWS
	EnvAWSRegion        = "AWS_REGION"
	EnvAWSS3EndpointURL = "AWS_ENDPOINT_URL_S3"
	EnvAWSAccessKeyID   = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretKey     = "AWS_SECRET_ACCESS_KEY"
)
