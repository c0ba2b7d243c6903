// Where: internal/domain/deployment/errors.go
// What: Sentinel errors for deployment validation.
// Why: Callers and tests match on the fail-fast cases.
package deployment

import "errors"

var (
	ErrModelRequired            = errors.New("model id is required")
	ErrAsyncOutputRequired      = errors.New("async endpoint requires --s3-output-path (or pass --sync)")
	ErrAsyncConcurrencyRequired = errors.New("async endpoint requires --max-concurrent-invocations-per-instance (or pass --sync)")
)
