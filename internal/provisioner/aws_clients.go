// Where: internal/provisioner/aws_clients.go
// What: AWS SDK adapter for SageMaker.
// Why: Map internal provisioner types to SDK types.
package provisioner

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
)

type awsSageMakerClient struct {
	client *sagemaker.Client
}

func (c awsSageMakerClient) CreateModel(ctx context.Context, input ModelRequest) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("sagemaker client is nil")
	}
	resp, err := c.client.CreateModel(ctx, buildAWSCreateModelInput(input))
	if err != nil {
		return "", err
	}
	return aws.ToString(resp.ModelArn), nil
}

func (c awsSageMakerClient) CreateEndpointConfig(ctx context.Context, input EndpointConfigRequest) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("sagemaker client is nil")
	}
	resp, err := c.client.CreateEndpointConfig(ctx, buildAWSCreateEndpointConfigInput(input))
	if err != nil {
		return "", err
	}
	return aws.ToString(resp.EndpointConfigArn), nil
}

func (c awsSageMakerClient) CreateEndpoint(ctx context.Context, input EndpointRequest) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("sagemaker client is nil")
	}
	resp, err := c.client.CreateEndpoint(ctx, &sagemaker.CreateEndpointInput{
		EndpointName:       aws.String(input.Name),
		EndpointConfigName: aws.String(input.EndpointConfigName),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(resp.EndpointArn), nil
}

func (c awsSageMakerClient) WaitInService(ctx context.Context, endpointName string, timeout time.Duration) error {
	if c.client == nil {
		return fmt.Errorf("sagemaker client is nil")
	}
	waiter := sagemaker.NewEndpointInServiceWaiter(c.client)
	return waiter.Wait(ctx, &sagemaker.DescribeEndpointInput{EndpointName: aws.String(endpointName)}, timeout)
}

func buildAWSCreateModelInput(input ModelRequest) *sagemaker.CreateModelInput {
	container := &types.ContainerDefinition{
		Image:       aws.String(input.Image),
		Environment: input.Environment,
	}
	if input.S3ModelURI != "" {
		container.ModelDataSource = &types.ModelDataSource{
			S3DataSource: &types.S3ModelDataSource{
				S3Uri:           aws.String(input.S3ModelURI),
				S3DataType:      types.S3ModelDataTypeS3Prefix,
				CompressionType: types.ModelCompressionTypeNone,
			},
		}
	}
	return &sagemaker.CreateModelInput{
		ModelName:        aws.String(input.Name),
		PrimaryContainer: container,
		ExecutionRoleArn: aws.String(input.RoleARN),
	}
}

func buildAWSCreateEndpointConfigInput(input EndpointConfigRequest) *sagemaker.CreateEndpointConfigInput {
	variant := types.ProductionVariant{
		VariantName:          aws.String(input.VariantName),
		ModelName:            aws.String(input.ModelName),
		InstanceType:         types.ProductionVariantInstanceType(input.InstanceType),
		InitialInstanceCount: aws.Int32(int32(input.InstanceCount)),
	}
	if input.HealthCheckTimeoutSeconds > 0 {
		variant.ContainerStartupHealthCheckTimeoutInSeconds = aws.Int32(int32(input.HealthCheckTimeoutSeconds))
	}
	out := &sagemaker.CreateEndpointConfigInput{
		EndpointConfigName: aws.String(input.Name),
		ProductionVariants: []types.ProductionVariant{variant},
	}
	if input.Async != nil {
		output := &types.AsyncInferenceOutputConfig{
			S3OutputPath: aws.String(input.Async.OutputPath),
		}
		if input.Async.FailurePath != "" {
			output.S3FailurePath = aws.String(input.Async.FailurePath)
		}
		out.AsyncInferenceConfig = &types.AsyncInferenceConfig{
			OutputConfig: output,
			ClientConfig: &types.AsyncInferenceClientConfig{
				MaxConcurrentInvocationsPerInstance: aws.Int32(int32(input.Async.MaxConcurrentInvocations)),
			},
		}
	}
	return out
}
