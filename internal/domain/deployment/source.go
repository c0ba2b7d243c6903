// Where: internal/domain/deployment/source.go
// What: Model source parsing (hub identifier or S3 prefix).
// Why: S3 sources are mounted by SageMaker, hub sources are pulled by the container.
package deployment

import (
	"fmt"
	"strings"
)

const s3Scheme = "s3://"

// ModelSource is either a model hub identifier or an s3:// prefix.
type ModelSource struct {
	ID    string
	S3URI string
}

// ParseModelSource classifies raw. S3 URIs are normalised to end with "/" because
// SageMaker treats the value as a key prefix.
func ParseModelSource(raw string) (ModelSource, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ModelSource{}, ErrModelRequired
	}
	if !strings.HasPrefix(value, s3Scheme) {
		return ModelSource{ID: value}, nil
	}
	bucket, _, err := SplitS3URI(value)
	if err != nil {
		return ModelSource{}, err
	}
	if bucket == "" {
		return ModelSource{}, fmt.Errorf("model source %q: missing bucket", value)
	}
	if !strings.HasSuffix(value, "/") {
		value += "/"
	}
	return ModelSource{S3URI: value}, nil
}

// IsS3 reports whether the model is mounted from S3.
func (m ModelSource) IsS3() bool {
	return m.S3URI != ""
}

// IsZero reports whether no source was configured.
func (m ModelSource) IsZero() bool {
	return m.ID == "" && m.S3URI == ""
}

func (m ModelSource) String() string {
	if m.IsS3() {
		return m.S3URI
	}
	return m.ID
}

// SplitS3URI splits s3://bucket/key/prefix into bucket and key prefix.
func SplitS3URI(uri string) (bucket, prefix string, err error) {
	if !strings.HasPrefix(uri, s3Scheme) {
		return "", "", fmt.Errorf("not an s3 uri: %q", uri)
	}
	rest := strings.TrimPrefix(uri, s3Scheme)
	bucket, prefix, _ = strings.Cut(rest, "/")
	return bucket, prefix, nil
}
