// Where: internal/infra/storage/s3.go
// What: S3 adapter used to copy a model prefix into local storage.
// Why: Keep SDK types out of the copy loop so it can run against a fake.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/poruru-code/smvllm/internal/constants"
	"github.com/poruru-code/smvllm/internal/meta"
)

// Object is one listed S3 object.
type Object struct {
	Key  string
	Size int64
}

// S3API is the subset of S3 the fetcher needs.
type S3API interface {
	ListObjects(ctx context.Context, bucket, prefix string) ([]Object, error)
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

type awsS3Client struct {
	client *s3.Client
}

func (c awsS3Client) ListObjects(ctx context.Context, bucket, prefix string) ([]Object, error) {
	paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	var objects []Object
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Contents {
			objects = append(objects, Object{
				Key:  aws.ToString(item.Key),
				Size: aws.ToInt64(item.Size),
			})
		}
	}
	return objects, nil
}

func (c awsS3Client) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// NewS3Client builds an SDK-backed client. When AWS_ENDPOINT_URL_S3 is set the
// client targets that S3-compatible store with path-style addressing, using
// static keys from the environment when both are present.
func NewS3Client(ctx context.Context, region string) (S3API, error) {
	endpoint := strings.TrimSpace(os.Getenv(constants.EnvAWSS3EndpointURL))
	opts := []func(*config.LoadOptions) error{config.WithRegion(resolveRegion(region))}
	accessKey := os.Getenv(constants.EnvAWSAccessKeyID)
	secretKey := os.Getenv(constants.EnvAWSSecretKey)
	if endpoint != "" && accessKey != "" && secretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
			options.UsePathStyle = true
		}
	})
	return awsS3Client{client: client}, nil
}

func resolveRegion(region string) string {
	if value := strings.TrimSpace(region); value != "" {
		return value
	}
	if value := strings.TrimSpace(os.Getenv(constants.EnvAWSRegion)); value != "" {
		return value
	}
	return meta.DefaultRegion
}
