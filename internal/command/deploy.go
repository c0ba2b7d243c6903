// Where: internal/command/deploy.go
// What: Deploy command entry and workflow execution.
// Why: Wire flags, config file, prompts and the provisioner into the deploy usecase.
package command

import (
	"os"

	"github.com/poruru-code/smvllm/internal/infra/interaction"
	"github.com/poruru-code/smvllm/internal/infra/ui"
	"github.com/poruru-code/smvllm/internal/provisioner"
	"github.com/poruru-code/smvllm/internal/usecase/deploy"
	"github.com/rs/zerolog"
)

// runDeploy executes the 'deploy' command.
func runDeploy(cli CLI, deps Dependencies) int {
	out := deps.Out
	userInterface, err := newUserInterface(cli, out)
	if err != nil {
		return exitWithError(out, err)
	}
	log := newLogger(cli, deps)

	file, err := loadDeployFile(cli.Deploy.Config)
	if err != nil {
		return exitWithError(out, err)
	}
	spec, err := resolveDeploySpec(cli.Deploy, file)
	if err != nil {
		return exitWithError(out, err)
	}

	newProvisioner := deps.Deploy.NewProvisioner
	if newProvisioner == nil {
		newProvisioner = defaultProvisioner
	}
	prompter := deps.Prompter
	if prompter == nil {
		prompter = interaction.HuhPrompter{}
	}
	interactive := deps.Interactive
	if interactive == nil {
		interactive = func() bool { return interaction.IsTerminal(os.Stdin) }
	}

	workflow := deploy.Workflow{
		Provisioner:   newProvisioner(userInterface, log),
		UserInterface: userInterface,
		Prompter:      prompter,
		Interactive:   interactive(),
		Log:           log,
	}
	_, err = workflow.Run(deps.Context, deploy.Request{
		Spec:        spec,
		DryRun:      cli.Deploy.DryRun,
		Yes:         cli.Deploy.Yes,
		Wait:        cli.Deploy.Wait,
		WaitTimeout: cli.Deploy.WaitTimeout,
		RecordPath:  cli.Deploy.Record,
	})
	if err != nil {
		return exitWithError(out, err)
	}
	return 0
}

func defaultProvisioner(userInterface ui.UserInterface, log zerolog.Logger) deploy.Applier {
	return provisioner.New(userInterface, log)
}
