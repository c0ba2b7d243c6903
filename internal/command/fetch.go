// Where: internal/command/fetch.go
// What: Fetch command entry.
// Why: Container init step that copies weights before the server starts.
package command

import (
	"errors"
	"fmt"

	"github.com/poruru-code/smvllm/internal/usecase/fetch"
)

// FetchCmd defines the fetch command flags. The model itself always comes from MODEL_ID.
type FetchCmd struct {
	LocalDir    string `name:"local-dir" default:"/opt/models" help:"Destination directory"`
	Revision    string `name:"revision" help:"Hub revision (default: MODEL_REVISION or main)"`
	HubCLI      string `name:"hub-cli" help:"Hub command-line client (default: HF_CLI_BIN or huggingface-cli)"`
	Region      string `name:"region" help:"AWS region for s3:// sources"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus textfile metrics to this path"`
}

// runFetch executes the 'fetch' command. Failures print the bare message
// expected by container entrypoint scripts.
func runFetch(cli CLI, deps Dependencies) int {
	out := deps.Out
	userInterface, err := newUserInterface(cli, out)
	if err != nil {
		return exitWithError(out, err)
	}
	log := newLogger(cli, deps)

	newWorkflow := deps.Fetch.NewWorkflow
	if newWorkflow == nil {
		newWorkflow = fetch.NewWorkflow
	}
	req := fetch.RequestFromEnv(deps.Env)
	req.LocalDir = cli.Fetch.LocalDir
	req.Region = cli.Fetch.Region
	req.MetricsFile = cli.Fetch.MetricsFile
	if cli.Fetch.Revision != "" {
		req.Revision = cli.Fetch.Revision
	}
	if cli.Fetch.HubCLI != "" {
		req.HubCLI = cli.Fetch.HubCLI
	}

	if _, err := newWorkflow(userInterface, log).Run(deps.Context, req); err != nil {
		if errors.Is(err, fetch.ErrModelIDNotSet) || errors.Is(err, fetch.ErrDownload) {
			fmt.Fprintln(out, err.Error())
			return 1
		}
		return exitWithError(out, err)
	}
	return 0
}
