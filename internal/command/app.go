// Where: internal/command/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/poruru-code/smvllm/internal/infra/envutil"
	"github.com/poruru-code/smvllm/internal/infra/interaction"
	"github.com/poruru-code/smvllm/internal/infra/localrun"
	"github.com/poruru-code/smvllm/internal/infra/ui"
	"github.com/poruru-code/smvllm/internal/launcher"
	"github.com/poruru-code/smvllm/internal/logger"
	"github.com/poruru-code/smvllm/internal/meta"
	"github.com/poruru-code/smvllm/internal/usecase/deploy"
	"github.com/poruru-code/smvllm/internal/usecase/fetch"
	"github.com/poruru-code/smvllm/internal/version"
	"github.com/rs/zerolog"
)

// Dependencies holds all injected dependencies required for CLI command execution.
// Nil fields fall back to the production implementations.
type Dependencies struct {
	Context  context.Context
	Out      io.Writer
	ErrOut   io.Writer
	Env      envutil.Lookup
	Prompter interaction.Prompter
	// Interactive reports whether confirmation prompts may be shown.
	Interactive func() bool
	Deploy      DeployDeps
	Fetch       FetchDeps
	Serve       ServeDeps
	Local       LocalDeps
}

type (
	DeployDeps struct {
		NewProvisioner func(ui.UserInterface, zerolog.Logger) deploy.Applier
	}

	FetchDeps struct {
		NewWorkflow func(ui.UserInterface, zerolog.Logger) fetch.Workflow
	}

	ServeDeps struct {
		Runner launcher.Runner
	}

	LocalDeps struct {
		DockerClient func() (localrun.DockerClient, error)
	}
)

// CLI defines the command-line interface structure parsed by Kong.
// It contains global flags and all subcommand definitions.
type CLI struct {
	EnvFile   string     `name:"env-file" help:"Path to .env file (default: ./.env when present)"`
	LogLevel  string     `name:"log-level" env:"LOG_LEVEL" default:"info" help:"Log level (debug/info/warn/error)"`
	LogFormat string     `name:"log-format" env:"LOG_FORMAT" default:"console" help:"Log format (console/json)"`
	Emoji     bool       `name:"emoji" help:"Enable emoji output (default: auto)"`
	NoEmoji   bool       `name:"no-emoji" help:"Disable emoji output"`
	Deploy    DeployCmd  `cmd:"" help:"Create a SageMaker model, endpoint config and endpoint"`
	Fetch     FetchCmd   `cmd:"" help:"Copy model weights into local storage"`
	Serve     ServeCmd   `cmd:"" help:"Start the vLLM server from container environment variables"`
	Local     LocalCmd   `cmd:"" help:"Run the serving image locally with Docker"`
	Version   VersionCmd `cmd:"" help:"Show version information"`
}

type VersionCmd struct{}

// Run is the main entry point for CLI command execution.
// It parses the command-line arguments, identifies the requested command,
// and dispatches to the appropriate handler. Returns the process exit code.
func Run(args []string, deps Dependencies) int {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.ErrOut == nil {
		deps.ErrOut = os.Stderr
	}
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	out := deps.Out
	console := ui.NewUI(out, false)

	if len(args) == 0 {
		return runNoArgs(out)
	}

	// Load the env file before parsing so that env-backed flags see its values.
	if path := envFileArg(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			console.Warn(fmt.Sprintf("Warning: failed to load env file %s: %v", path, err))
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			console.Warn(fmt.Sprintf("Warning: failed to load .env: %v", err))
		}
	}
	if deps.Env == nil {
		deps.Env = envutil.OS()
	}

	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name(meta.AppName),
		kong.Writers(out, deps.ErrOut),
	)
	if err != nil {
		return exitWithError(out, err)
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return handleParseError(err, out)
	}

	command := ctx.Command()
	if exitCode, handled := dispatchCommand(command, cli, deps); handled {
		return exitCode
	}

	console.Warn("unknown command")
	return 1
}

type commandHandler func(CLI, Dependencies) int

func dispatchCommand(command string, cli CLI, deps Dependencies) (int, bool) {
	handlers := map[string]commandHandler{
		"deploy":  runDeploy,
		"fetch":   runFetch,
		"serve":   runServe,
		"local":   runLocal,
		"version": runVersion,
	}
	// Commands with positional args report as "serve <extra>".
	name, _, _ := strings.Cut(command, " ")
	if handler, ok := handlers[name]; ok {
		return handler(cli, deps), true
	}
	return 1, false
}

// runVersion prints the version information of the CLI.
func runVersion(_ CLI, deps Dependencies) int {
	ui.NewUI(deps.Out, false).Info(version.Describe(meta.AppName))
	return 0
}

// newLogger builds the command logger. Logs go to ErrOut so that stdout stays
// reserved for command output.
func newLogger(cli CLI, deps Dependencies) zerolog.Logger {
	return logger.New(deps.ErrOut, cli.LogLevel, cli.LogFormat)
}

// envFileArg extracts the --env-file value from args without a full parse.
func envFileArg(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			return ""
		}
		if value, ok := strings.CutPrefix(arg, "--env-file="); ok {
			return value
		}
		if arg == "--env-file" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// runNoArgs handles the case when the CLI is invoked without arguments.
func runNoArgs(out io.Writer) int {
	console := ui.NewUI(out, false)
	console.Info("Usage:")
	console.Info(fmt.Sprintf("  %s deploy --instance-type <type> --role-arn <arn> --image-uri <uri> --model-id <id> [flags]", meta.AppName))
	console.Info(fmt.Sprintf("  %s fetch [--local-dir <dir>]", meta.AppName))
	console.Info(fmt.Sprintf("  %s serve [-- <extra server args>]", meta.AppName))
	console.Info(fmt.Sprintf("  %s local --image-uri <uri> --model-id <id> [flags]", meta.AppName))
	console.Info("")
	console.Info(fmt.Sprintf("Try: %s <command> --help", meta.AppName))
	return 0
}

// handleParseError provides user-friendly error messages for parse failures.
func handleParseError(err error, out io.Writer) int {
	msg := err.Error()
	if strings.Contains(msg, "expected string value") && strings.Contains(msg, "--env-file") {
		console := ui.NewUI(out, false)
		console.Warn("`--env-file` expects a value. Provide a file path.")
		console.Info(fmt.Sprintf("Example: %s deploy --env-file .env.prod", meta.AppName))
		return 1
	}
	return exitWithError(out, err)
}
