// Where: internal/usecase/deploy/deploy.go
// What: Deploy workflow orchestration.
// Why: Encapsulate plan review, confirmation, provisioning and recording without CLI concerns.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poruru-code/smvllm/internal/domain/deployment"
	"github.com/poruru-code/smvllm/internal/infra/config"
	"github.com/poruru-code/smvllm/internal/infra/interaction"
	"github.com/poruru-code/smvllm/internal/infra/ui"
	"github.com/poruru-code/smvllm/internal/provisioner"
	"github.com/rs/zerolog"
)

var (
	ErrCancelled                = errors.New("deployment cancelled")
	errProvisionerNotConfigured = errors.New("provisioner is not configured")
)

// Request captures the inputs required to run a deploy.
type Request struct {
	Spec        deployment.Spec
	DryRun      bool
	Yes         bool
	Wait        bool
	WaitTimeout time.Duration
	RecordPath  string
}

// Applier issues the create calls for a plan.
type Applier interface {
	Apply(ctx context.Context, plan provisioner.Plan, opts provisioner.Options) (provisioner.Result, error)
}

// Workflow runs a deploy.
type Workflow struct {
	Provisioner   Applier
	UserInterface ui.UserInterface
	Prompter      interaction.Prompter
	// Interactive enables the confirmation prompt; it is false when stdin is not a terminal.
	Interactive bool
	Log         zerolog.Logger
	Now         func() time.Time
}

// Run validates and renders the plan, shows it, asks for confirmation and
// provisions. With DryRun nothing is created.
func (w Workflow) Run(ctx context.Context, req Request) (provisioner.Result, error) {
	plan, err := provisioner.BuildPlan(req.Spec)
	if err != nil {
		return provisioner.Result{}, err
	}
	w.showPlan(plan)

	if req.DryRun {
		w.info("Dry run: no resources were created.")
		return provisioner.Result{}, nil
	}
	if w.Provisioner == nil {
		return provisioner.Result{}, errProvisionerNotConfigured
	}
	if w.Interactive && !req.Yes && w.Prompter != nil {
		ok, err := w.Prompter.Confirm(
			fmt.Sprintf("Create endpoint %s?", plan.Names.Endpoint),
			fmt.Sprintf("%s x%d in %s", plan.Spec.InstanceType, plan.Spec.InstanceCount, plan.Spec.Region),
		)
		if err != nil {
			return provisioner.Result{}, err
		}
		if !ok {
			return provisioner.Result{}, ErrCancelled
		}
	}

	result, applyErr := w.Provisioner.Apply(ctx, plan, provisioner.Options{
		Wait:        req.Wait,
		WaitTimeout: req.WaitTimeout,
	})
	if req.RecordPath != "" {
		if err := config.WriteDeployRecord(req.RecordPath, w.record(plan, result, applyErr)); err != nil {
			w.Log.Warn().Err(err).Str("path", req.RecordPath).Msg("deploy record not written")
		} else {
			w.Log.Info().Str("path", req.RecordPath).Msg("deploy record written")
		}
	}
	return result, applyErr
}

func (w Workflow) showPlan(plan provisioner.Plan) {
	if w.UserInterface == nil {
		return
	}
	spec := plan.Spec
	rows := []ui.KeyValue{
		{Key: "Region", Value: spec.Region},
		{Key: "Endpoint", Value: plan.Names.Endpoint},
		{Key: "Endpoint config", Value: plan.Names.EndpointConfig},
		{Key: "Model", Value: plan.Names.Model},
		{Key: "Model source", Value: spec.Model.String()},
		{Key: "Image", Value: spec.ImageURI},
		{Key: "Instance", Value: fmt.Sprintf("%s x%d", spec.InstanceType, spec.InstanceCount)},
		{Key: "Health check timeout", Value: fmt.Sprintf("%ds", spec.HealthCheckTimeout)},
		{Key: "Mode", Value: mode(spec)},
	}
	if async := plan.EndpointConfig.Async; async != nil {
		rows = append(rows,
			ui.KeyValue{Key: "S3 output path", Value: async.OutputPath},
			ui.KeyValue{Key: "Max concurrent invocations", Value: async.MaxConcurrentInvocations},
		)
		if async.FailurePath != "" {
			rows = append(rows, ui.KeyValue{Key: "S3 failure path", Value: async.FailurePath})
		}
	}
	w.UserInterface.Block("🚀", "Deployment plan", rows)
	w.UserInterface.Env("Container environment", plan.Environment.Redacted())
}

func (w Workflow) record(plan provisioner.Plan, result provisioner.Result, applyErr error) config.DeployRecord {
	now := w.Now
	if now == nil {
		now = time.Now
	}
	record := config.DeployRecord{
		CreatedAt:         now().UTC().Format(time.RFC3339),
		Region:            plan.Spec.Region,
		Endpoint:          plan.Names.Endpoint,
		EndpointConfig:    plan.Names.EndpointConfig,
		Model:             plan.Names.Model,
		ModelSource:       plan.Spec.Model.String(),
		Mode:              mode(plan.Spec),
		ModelARN:          result.ModelARN,
		EndpointConfigARN: result.EndpointConfigARN,
		EndpointARN:       result.EndpointARN,
		Environment:       plan.Environment.Redacted(),
	}
	if applyErr != nil {
		record.Error = applyErr.Error()
	}
	return record
}

func (w Workflow) info(msg string) {
	if w.UserInterface != nil {
		w.UserInterface.Info(msg)
	}
}

func mode(spec deployment.Spec) string {
	if spec.Sync {
		return "sync"
	}
	return "async"
}
