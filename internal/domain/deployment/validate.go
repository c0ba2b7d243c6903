// Where: internal/domain/deployment/validate.go
// What: Pre-flight validation of a deployment Spec.
// Why: Every check runs before the first control-plane call.
package deployment

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks s and returns every problem found, joined.
func (s Spec) Validate() error {
	var errs []error
	required := []struct {
		name  string
		value string
	}{
		{"instance type", s.InstanceType},
		{"role arn", s.RoleARN},
		{"image uri", s.ImageURI},
		{"endpoint name", s.EndpointName},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", field.name))
		}
	}
	if s.Model.IsZero() {
		errs = append(errs, ErrModelRequired)
	}
	if s.InstanceCount < 1 {
		errs = append(errs, fmt.Errorf("instance count must be >= 1, got %d", s.InstanceCount))
	}
	if s.HealthCheckTimeout < 60 || s.HealthCheckTimeout > 3600 {
		errs = append(errs, fmt.Errorf("health check timeout must be within 60..3600 seconds, got %d", s.HealthCheckTimeout))
	}
	if !s.Sync {
		errs = append(errs, s.Async.validate()...)
	}
	errs = append(errs, s.Tuning.validate()...)
	return errors.Join(errs...)
}

func (a AsyncConfig) validate() []error {
	var errs []error
	switch {
	case strings.TrimSpace(a.OutputPath) == "":
		errs = append(errs, ErrAsyncOutputRequired)
	case !strings.HasPrefix(a.OutputPath, s3Scheme):
		errs = append(errs, fmt.Errorf("s3 output path must start with s3://, got %q", a.OutputPath))
	}
	if a.FailurePath != "" && !strings.HasPrefix(a.FailurePath, s3Scheme) {
		errs = append(errs, fmt.Errorf("s3 failure path must start with s3://, got %q", a.FailurePath))
	}
	if a.MaxConcurrentInvocations <= 0 {
		errs = append(errs, ErrAsyncConcurrencyRequired)
	}
	return errs
}

func (t Tuning) validate() []error {
	var errs []error
	positive := []struct {
		name  string
		value *int
	}{
		{"max model len", t.MaxModelLen},
		{"tensor parallel size", t.TensorParallelSize},
		{"max num seqs", t.MaxNumSeqs},
	}
	for _, field := range positive {
		if field.value != nil && *field.value < 1 {
			errs = append(errs, fmt.Errorf("%s must be >= 1, got %d", field.name, *field.value))
		}
	}
	if t.SwapSpace != nil && *t.SwapSpace < 0 {
		errs = append(errs, fmt.Errorf("swap space must be >= 0, got %d", *t.SwapSpace))
	}
	if t.GPUMemoryUtilization != nil {
		if v := *t.GPUMemoryUtilization; v <= 0 || v > 1 {
			errs = append(errs, fmt.Errorf("gpu memory utilization must be within (0, 1], got %v", v))
		}
	}
	return errs
}
