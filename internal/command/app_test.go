// Where: internal/command/app_test.go
// What: Tests for CLI run behavior.
// Why: Ensure command routing and flag wiring remain stable.
package command

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/poruru-code/smvllm/internal/domain/snapshot"
	"github.com/poruru-code/smvllm/internal/infra/envutil"
	"github.com/poruru-code/smvllm/internal/infra/localrun"
	"github.com/poruru-code/smvllm/internal/infra/ui"
	"github.com/poruru-code/smvllm/internal/provisioner"
	"github.com/poruru-code/smvllm/internal/usecase/deploy"
	"github.com/poruru-code/smvllm/internal/usecase/fetch"
	"github.com/rs/zerolog"
)

type fakeApplier struct {
	calls int
	plan  provisioner.Plan
}

func (f *fakeApplier) Apply(_ context.Context, plan provisioner.Plan, _ provisioner.Options) (provisioner.Result, error) {
	f.calls++
	f.plan = plan
	return provisioner.Result{EndpointARN: "arn:endpoint"}, nil
}

type fakeRunner struct {
	argv []string
	code int
}

func (f *fakeRunner) Run(_ context.Context, argv []string) (int, error) {
	f.argv = argv
	return f.code, nil
}

func testDeps(out *bytes.Buffer, env map[string]string) Dependencies {
	return Dependencies{
		Out:         out,
		ErrOut:      io.Discard,
		Env:         envutil.FromMap(env),
		Interactive: func() bool { return false },
	}
}

func withApplier(deps Dependencies, applier *fakeApplier) Dependencies {
	deps.Deploy.NewProvisioner = func(ui.UserInterface, zerolog.Logger) deploy.Applier { return applier }
	return deps
}

var requiredDeployFlags = []string{
	"deploy",
	"--instance-type", "ml.g6.xlarge",
	"--role-arn", "arn:aws:iam::123456789012:role/sm",
	"--image-uri", "123456789012.dkr.ecr.us-east-1.amazonaws.com/vllm:latest",
	"--model-id", "Qwen/Qwen2.5-7B-Instruct",
}

func TestRunNoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	if code := Run(nil, Dependencies{Out: &out}); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out.String(), "smvllm deploy") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	if code := Run([]string{"version"}, testDeps(&out, nil)); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.HasPrefix(out.String(), "smvllm ") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunDeployDryRun(t *testing.T) {
	var out bytes.Buffer
	applier := &fakeApplier{}
	args := append(append([]string{}, requiredDeployFlags...), "--sync", "--dry-run", "--tensor-parallel-size", "8")

	if code := Run(args, withApplier(testDeps(&out, nil), applier)); code != 0 {
		t.Fatalf("exit code = %d, output:\n%s", code, out.String())
	}
	if applier.calls != 0 {
		t.Fatalf("dry run must not provision")
	}
	for _, want := range []string{"vllm-endpoint-config", "TENSOR_PARALLEL_SIZE", "Dry run"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunDeployAsyncRequiresOutputPath(t *testing.T) {
	var out bytes.Buffer
	applier := &fakeApplier{}

	if code := Run(requiredDeployFlags, withApplier(testDeps(&out, nil), applier)); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if applier.calls != 0 || !strings.Contains(out.String(), "s3-output-path") {
		t.Fatalf("calls=%d output=%q", applier.calls, out.String())
	}
}

func TestRunDeployMergesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deploy.yaml")
	content := `instance_type: ml.g5.2xlarge
role_arn: arn:aws:iam::123456789012:role/sm
image_uri: vllm:latest
model_id: s3://bucket/models/qwen
endpoint_name: from-file
async:
  s3_output_path: s3://bucket/out/
  max_concurrent_invocations_per_instance: 4
tuning:
  enable_prefix_caching: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out bytes.Buffer
	applier := &fakeApplier{}

	code := Run([]string{"deploy", "--config", path, "--endpoint-name", "from-flag", "--yes"}, withApplier(testDeps(&out, nil), applier))
	if code != 0 {
		t.Fatalf("exit code = %d, output:\n%s", code, out.String())
	}
	plan := applier.plan
	if plan.Names.Endpoint != "from-flag" || plan.Spec.InstanceType != "ml.g5.2xlarge" {
		t.Fatalf("flags must win over the file: %+v", plan.Names)
	}
	if plan.Model.S3ModelURI != "s3://bucket/models/qwen/" || plan.Environment["MODEL_ID"] != "/opt/ml/model" {
		t.Fatalf("unexpected model request %+v", plan.Model)
	}
	if plan.EndpointConfig.Async == nil || plan.EndpointConfig.Async.MaxConcurrentInvocations != 4 {
		t.Fatalf("expected async config from file, got %+v", plan.EndpointConfig.Async)
	}
	if plan.Environment["ENABLE_PREFIX_CACHING"] != "1" {
		t.Fatalf("expected tuning from file, got %v", plan.Environment)
	}
}

func TestRunDeployRejectsExplicitNonPositiveCounts(t *testing.T) {
	cases := map[string][]string{
		"instance count must be >= 1, got -3": {"--instance-count=-3"},
		"instance count must be >= 1, got 0":  {"--instance-count", "0"},
		"health check timeout must be within": {"--health-check-timeout", "0"},
	}
	for want, extra := range cases {
		var out bytes.Buffer
		applier := &fakeApplier{}
		args := append(append([]string{}, requiredDeployFlags...), "--sync", "--yes")
		args = append(args, extra...)

		if code := Run(args, withApplier(testDeps(&out, nil), applier)); code != 1 {
			t.Fatalf("%v: expected exit 1, got %d", extra, code)
		}
		if applier.calls != 0 {
			t.Fatalf("%v: invalid input must not reach the provisioner", extra)
		}
		if !strings.Contains(out.String(), want) {
			t.Fatalf("%v: output missing %q:\n%s", extra, want, out.String())
		}
	}
}

func TestRunDeployFalseFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deploy.yaml")
	content := `sync: true
tuning:
  enable_prefix_caching: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out bytes.Buffer
	applier := &fakeApplier{}
	args := append(append([]string{}, requiredDeployFlags...),
		"--config", path,
		"--sync=false",
		"--enable-prefix-caching=false",
		"--s3-output-path", "s3://bucket/out/",
		"--max-concurrent-invocations-per-instance", "2",
		"--yes",
	)

	if code := Run(args, withApplier(testDeps(&out, nil), applier)); code != 0 {
		t.Fatalf("exit code = %d, output:\n%s", code, out.String())
	}
	if applier.plan.Spec.Sync || applier.plan.EndpointConfig.Async == nil {
		t.Fatalf("--sync=false must override the file: %+v", applier.plan.EndpointConfig)
	}
	if _, ok := applier.plan.Environment["ENABLE_PREFIX_CACHING"]; ok {
		t.Fatalf("--enable-prefix-caching=false must override the file: %v", applier.plan.Environment)
	}
}

func TestRunFetchWithoutModelID(t *testing.T) {
	var out bytes.Buffer
	if code := Run([]string{"fetch"}, testDeps(&out, map[string]string{})); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if strings.TrimSpace(out.String()) != "ERROR: MODEL_ID environment variable not set" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

type failingHub struct{}

func (failingHub) Snapshot(context.Context, string, string, string, zerolog.Logger) (snapshot.Stats, error) {
	return snapshot.Stats{}, os.ErrPermission
}

func TestRunFetchDownloadFailure(t *testing.T) {
	var out bytes.Buffer
	deps := testDeps(&out, map[string]string{"MODEL_ID": "org/model"})
	deps.Fetch.NewWorkflow = func(userInterface ui.UserInterface, log zerolog.Logger) fetch.Workflow {
		return fetch.Workflow{
			NewHub: func(string, string, string) fetch.HubSnapshotter { return failingHub{} },
			UI:     userInterface,
			Log:    log,
		}
	}
	if code := Run([]string{"fetch", "--local-dir", t.TempDir()}, deps); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.HasPrefix(out.String(), "ERROR downloading model: ") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunServePassesExtraArgsAndExitCode(t *testing.T) {
	var out bytes.Buffer
	runner := &fakeRunner{code: 3}
	deps := testDeps(&out, map[string]string{"SM_MODEL_DIR": "/opt/ml/model", "API_PORT": "8081"})
	deps.Serve.Runner = runner

	code := Run([]string{"serve", "--server-bin", "vllm", "--", "--dtype", "half"}, deps)
	if code != 3 {
		t.Fatalf("expected server exit code, got %d", code)
	}
	got := strings.Join(runner.argv, " ")
	if got != "vllm serve /opt/ml/model --host 0.0.0.0 --port 8081 --dtype half" {
		t.Fatalf("unexpected argv %q", got)
	}
}

func TestRunServeWithoutModel(t *testing.T) {
	var out bytes.Buffer
	runner := &fakeRunner{}
	deps := testDeps(&out, map[string]string{})
	deps.Serve.Runner = runner

	if code := Run([]string{"serve"}, deps); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if runner.argv != nil || !strings.Contains(out.String(), "neither MODEL_ID nor SM_MODEL_DIR is set") {
		t.Fatalf("argv=%v output=%q", runner.argv, out.String())
	}
}

type fakeDocker struct {
	config *container.Config
}

func (f *fakeDocker) ImagePull(context.Context, string, image.PullOptions) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (f *fakeDocker) ContainerCreate(
	_ context.Context,
	config *container.Config,
	_ *container.HostConfig,
	_ *network.NetworkingConfig,
	_ *ocispec.Platform,
	_ string,
) (container.CreateResponse, error) {
	f.config = config
	return container.CreateResponse{ID: "abc123"}, nil
}

func (f *fakeDocker) ContainerStart(context.Context, string, container.StartOptions) error {
	return nil
}

func (f *fakeDocker) ContainerLogs(context.Context, string, container.LogsOptions) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func TestRunLocalStartsContainer(t *testing.T) {
	var out bytes.Buffer
	docker := &fakeDocker{}
	deps := testDeps(&out, nil)
	deps.Local.DockerClient = func() (localrun.DockerClient, error) { return docker, nil }

	code := Run([]string{"local", "--image-uri", "vllm:latest", "--model-id", "org/model", "--hf-token", "hf_secret", "--max-model-len", "4096"}, deps)
	if code != 0 {
		t.Fatalf("exit code = %d, output:\n%s", code, out.String())
	}
	env := strings.Join(docker.config.Env, ",")
	for _, want := range []string{"MODEL_ID=org/model", "MAX_MODEL_LEN=4096", "HF_TOKEN=hf_secret", "API_PORT=8080"} {
		if !strings.Contains(env, want) {
			t.Fatalf("env %q missing %q", env, want)
		}
	}
	if strings.Contains(out.String(), "hf_secret") || !strings.Contains(out.String(), "abc123") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestEnvFileArg(t *testing.T) {
	cases := map[string][]string{
		".env.prod": {"--env-file", ".env.prod", "deploy"},
		"x.env":     {"deploy", "--env-file=x.env"},
		"":          {"serve", "--", "--env-file", "ignored"},
	}
	for want, args := range cases {
		if got := envFileArg(args); got != want {
			t.Fatalf("envFileArg(%v) = %q, want %q", args, got, want)
		}
	}
}
