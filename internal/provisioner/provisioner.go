// Where: internal/provisioner/provisioner.go
// What: Provisioner entrypoint for the SageMaker model/config/endpoint triple.
// Why: Issue the three create calls in order and report each step.
package provisioner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/poruru-code/smvllm/internal/infra/ui"
	"github.com/rs/zerolog"
)

// Result holds the ARNs returned by the control plane.
type Result struct {
	ModelARN          string
	EndpointConfigARN string
	EndpointARN       string
	InService         bool
}

// Options tune Apply.
type Options struct {
	Wait        bool
	WaitTimeout time.Duration
}

type Runner struct {
	UI      ui.UserInterface
	Clients ClientFactory
	Log     zerolog.Logger
}

// New returns a Runner backed by the AWS SDK.
func New(userInterface ui.UserInterface, log zerolog.Logger) *Runner {
	return &Runner{
		UI:      userInterface,
		Clients: NewClientFactory(),
		Log:     log,
	}
}

// Apply creates the model, endpoint configuration and endpoint in that order.
// Calls are not transactional: a failure leaves earlier resources in place and
// later calls are not attempted. The returned Result holds whatever succeeded.
func (r *Runner) Apply(ctx context.Context, plan Plan, opts Options) (Result, error) {
	if r == nil {
		return Result{}, fmt.Errorf("provisioner is nil")
	}
	if r.Clients == nil {
		return Result{}, fmt.Errorf("client factory not configured")
	}
	out := r.UI
	if out == nil {
		out = ui.NewUI(os.Stdout, true)
	}

	client, err := r.Clients.SageMaker(ctx, plan.Spec.Region)
	if err != nil {
		return Result{}, err
	}

	var result Result
	r.Log.Debug().Str("model", plan.Model.Name).Msg("create model")
	result.ModelARN, err = client.CreateModel(ctx, plan.Model)
	if err != nil {
		return result, fmt.Errorf("create model %s: %w", plan.Model.Name, err)
	}
	out.Success(fmt.Sprintf("Created model: %s", plan.Model.Name))

	r.Log.Debug().Str("endpoint_config", plan.EndpointConfig.Name).Bool("async", plan.EndpointConfig.Async != nil).Msg("create endpoint config")
	result.EndpointConfigARN, err = client.CreateEndpointConfig(ctx, plan.EndpointConfig)
	if err != nil {
		return result, fmt.Errorf("create endpoint config %s: %w", plan.EndpointConfig.Name, err)
	}
	out.Success(fmt.Sprintf("Created endpoint config: %s", plan.EndpointConfig.Name))

	r.Log.Debug().Str("endpoint", plan.Endpoint.Name).Msg("create endpoint")
	result.EndpointARN, err = client.CreateEndpoint(ctx, plan.Endpoint)
	if err != nil {
		return result, fmt.Errorf("create endpoint %s: %w", plan.Endpoint.Name, err)
	}
	out.Info(fmt.Sprintf("Creating endpoint: %s - this may take some time...", plan.Endpoint.Name))

	if !opts.Wait {
		out.Info("Check the SageMaker console for endpoint status.")
		return result, nil
	}

	timeout := opts.WaitTimeout
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	start := time.Now()
	if err := client.WaitInService(ctx, plan.Endpoint.Name, timeout); err != nil {
		return result, fmt.Errorf("wait for endpoint %s: %w", plan.Endpoint.Name, err)
	}
	result.InService = true
	r.Log.Info().Str("endpoint", plan.Endpoint.Name).Dur("elapsed", time.Since(start)).Msg("endpoint in service")
	out.Success(fmt.Sprintf("Endpoint %s is InService", plan.Endpoint.Name))
	return result, nil
}
