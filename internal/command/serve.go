// Where: internal/command/serve.go
// What: Serve command entry (container entrypoint).
// Why: Translate the container environment into a server process and mirror its exit code.
package command

import (
	"context"

	"github.com/poruru-code/smvllm/internal/launcher"
	"github.com/poruru-code/smvllm/internal/usecase/serve"
)

// ServeCmd defines the serve command flags. Arguments after "--" go to the server verbatim.
type ServeCmd struct {
	ServerBin string   `name:"server-bin" env:"VLLM_BIN" help:"Server executable (default: vllm)"`
	DryRun    bool     `name:"dry-run" help:"Print the server command instead of running it"`
	Extra     []string `arg:"" optional:"" passthrough:"" help:"Extra server arguments"`
}

// runServe executes the 'serve' command.
func runServe(cli CLI, deps Dependencies) int {
	out := deps.Out
	userInterface, err := newUserInterface(cli, out)
	if err != nil {
		return exitWithError(out, err)
	}
	runner := deps.Serve.Runner
	if runner == nil {
		runner = launcher.NewProcessRunner()
	}
	workflow := serve.Workflow{
		Env:    deps.Env,
		Runner: runner,
		UI:     userInterface,
		Log:    newLogger(cli, deps),
	}
	// Signals reach the server through the runner only.
	code, err := workflow.Run(context.WithoutCancel(deps.Context), serve.Request{
		ServerBin: cli.Serve.ServerBin,
		DryRun:    cli.Serve.DryRun,
		Extra:     trimSeparator(cli.Serve.Extra),
	})
	if err != nil {
		exitWithError(out, err)
	}
	return code
}

// trimSeparator drops a leading "--" that the parser may keep for passthrough args.
func trimSeparator(args []string) []string {
	if len(args) > 0 && args[0] == "--" {
		return args[1:]
	}
	return args
}
