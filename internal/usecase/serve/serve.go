// Where: internal/usecase/serve/serve.go
// What: Launcher workflow: environment -> server argv -> child process.
// Why: The container entrypoint stays a thin CLI wrapper around this.
package serve

import (
	"context"

	"github.com/poruru-code/smvllm/internal/constants"
	"github.com/poruru-code/smvllm/internal/infra/envutil"
	"github.com/poruru-code/smvllm/internal/infra/ui"
	"github.com/poruru-code/smvllm/internal/launcher"
	"github.com/poruru-code/smvllm/internal/meta"
	"github.com/rs/zerolog"
)

// Request captures CLI inputs of the launcher.
type Request struct {
	ServerBin string
	DryRun    bool
	Extra     []string
}

// Workflow turns the environment into a running server.
type Workflow struct {
	Env    envutil.Lookup
	Runner launcher.Runner
	UI     ui.UserInterface
	Log    zerolog.Logger
}

// Run returns the server's exit code. Configuration errors return 1 without
// starting the server.
func (w Workflow) Run(ctx context.Context, req Request) (int, error) {
	env := w.Env
	if env == nil {
		env = envutil.OS()
	}
	args, err := launcher.FromEnv(env, req.Extra)
	if err != nil {
		return 1, err
	}
	if err := args.Validate(); err != nil {
		return 1, err
	}

	bin := req.ServerBin
	if bin == "" {
		bin = env.String(constants.EnvServerBin, meta.DefaultServerBin)
	}
	argv := args.Argv(bin)
	args.LogSummary(w.Log)

	if req.DryRun {
		if w.UI != nil {
			w.UI.Command("Server command", argv)
		}
		return 0, nil
	}
	w.Log.Debug().Strs("argv", argv).Msg("exec")
	return w.Runner.Run(ctx, argv)
}
