// Where: internal/provisioner/aws_factory.go
// What: AWS client factory for SageMaker provisioning.
// Why: Encapsulate SDK configuration (region, shared profile, credential chain).
package provisioner

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
)

type ClientFactory interface {
	SageMaker(ctx context.Context, region string) (SageMakerAPI, error)
}

type awsClientFactory struct{}

// NewClientFactory returns the SDK-backed factory.
func NewClientFactory() ClientFactory {
	return awsClientFactory{}
}

func (awsClientFactory) SageMaker(ctx context.Context, region string) (SageMakerAPI, error) {
	cfg, err := loadAWSConfig(ctx, region)
	if err != nil {
		return nil, err
	}
	return awsSageMakerClient{client: sagemaker.NewFromConfig(cfg)}, nil
}

// loadAWSConfig pins the region the plan resolved; a blank region is left to
// the SDK's own lookup.
func loadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if value := strings.TrimSpace(region); value != "" {
		opts = append(opts, config.WithRegion(value))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}
