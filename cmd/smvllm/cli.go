// Where: cmd/smvllm/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"context"
	"os"

	"github.com/poruru-code/smvllm/internal/command"
	"github.com/poruru-code/smvllm/internal/infra/envutil"
	"github.com/poruru-code/smvllm/internal/infra/interaction"
	"github.com/poruru-code/smvllm/internal/infra/localrun"
	"github.com/poruru-code/smvllm/internal/launcher"
)

var (
	stdinIsTerminal  = func() bool { return interaction.IsTerminal(os.Stdin) }
	stdoutIsTerminal = func() bool { return interaction.IsTerminal(os.Stdout) }
	newDockerClient  = localrun.NewDockerClient
)

// buildDependencies constructs the runtime dependencies required by the CLI.
// Clients that need credentials or a daemon are created lazily by the commands.
func buildDependencies(ctx context.Context) command.Dependencies {
	return command.Dependencies{
		Context:     ctx,
		Out:         os.Stdout,
		ErrOut:      os.Stderr,
		Env:         envutil.OS(),
		Prompter:    newPrompter(),
		Interactive: stdinIsTerminal,
		Serve: command.ServeDeps{
			Runner: launcher.NewProcessRunner(),
		},
		Local: command.LocalDeps{
			DockerClient: newDockerClient,
		},
	}
}

// newPrompter uses the huh form when it can draw on the terminal and falls
// back to a plain y/N line when stdout is redirected.
func newPrompter() interaction.Prompter {
	if stdoutIsTerminal() {
		return interaction.HuhPrompter{}
	}
	return interaction.LinePrompter{In: os.Stdin, Out: os.Stderr}
}
