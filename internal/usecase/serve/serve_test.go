// Where: internal/usecase/serve/serve_test.go
// What: Tests for the launcher workflow.
// Why: A bad configuration must never start the server.
package serve

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poruru-code/smvllm/internal/infra/envutil"
	"github.com/poruru-code/smvllm/internal/infra/ui"
	"github.com/poruru-code/smvllm/internal/launcher"
	"github.com/rs/zerolog"
)

type fakeRunner struct {
	argv []string
	code int
}

func (f *fakeRunner) Run(_ context.Context, argv []string) (int, error) {
	f.argv = argv
	return f.code, nil
}

func TestRunMissingModelNeverStartsServer(t *testing.T) {
	runner := &fakeRunner{}
	w := Workflow{Env: envutil.FromMap(map[string]string{}), Runner: runner, Log: zerolog.Nop()}

	code, err := w.Run(context.Background(), Request{})
	if code == 0 || !errors.Is(err, launcher.ErrModelNotConfigured) {
		t.Fatalf("expected failure, code=%d err=%v", code, err)
	}
	if runner.argv != nil {
		t.Fatalf("runner must not be invoked")
	}
}

func TestRunInvalidConfigNeverStartsServer(t *testing.T) {
	runner := &fakeRunner{}
	w := Workflow{
		Env:    envutil.FromMap(map[string]string{"MODEL_ID": "m", "TENSOR_PARALLEL_SIZE": "0"}),
		Runner: runner,
		Log:    zerolog.Nop(),
	}
	if code, err := w.Run(context.Background(), Request{}); code != 1 || err == nil {
		t.Fatalf("expected validation failure, code=%d err=%v", code, err)
	}
	if runner.argv != nil {
		t.Fatalf("runner must not be invoked")
	}
}

func TestRunPropagatesExitCode(t *testing.T) {
	runner := &fakeRunner{code: 137}
	w := Workflow{
		Env:    envutil.FromMap(map[string]string{"MODEL_ID": "m", "VLLM_BIN": "/opt/venv/bin/vllm"}),
		Runner: runner,
		Log:    zerolog.Nop(),
	}
	code, err := w.Run(context.Background(), Request{Extra: []string{"--trust-remote-code"}})
	if err != nil || code != 137 {
		t.Fatalf("code=%d err=%v", code, err)
	}
	if runner.argv[0] != "/opt/venv/bin/vllm" || runner.argv[len(runner.argv)-1] != "--trust-remote-code" {
		t.Fatalf("unexpected argv %v", runner.argv)
	}
}

func TestRunDryRunPrintsCommand(t *testing.T) {
	runner := &fakeRunner{}
	var out bytes.Buffer
	w := Workflow{
		Env:    envutil.FromMap(map[string]string{"MODEL_ID": "org/model"}),
		Runner: runner,
		UI:     ui.NewUI(&out, false),
		Log:    zerolog.Nop(),
	}
	code, err := w.Run(context.Background(), Request{ServerBin: "vllm", DryRun: true})
	if err != nil || code != 0 {
		t.Fatalf("code=%d err=%v", code, err)
	}
	if runner.argv != nil {
		t.Fatalf("dry run must not start the server")
	}
	for _, part := range []string{"vllm", "serve", "org/model", "--port", "8080"} {
		if !strings.Contains(out.String(), part) {
			t.Fatalf("output %q missing %q", out.String(), part)
		}
	}
}
