// Where: internal/command/local.go
// What: Local run command entry.
// Why: Start the serving image with the environment the endpoint would receive.
package command

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/poruru-code/smvllm/internal/constants"
	"github.com/poruru-code/smvllm/internal/domain/deployment"
	"github.com/poruru-code/smvllm/internal/infra/localrun"
	"github.com/poruru-code/smvllm/internal/meta"
)

// LocalCmd defines the local command flags.
type LocalCmd struct {
	ModelFlags `embed:""`

	ImageURI string `name:"image-uri" help:"Serving container image"`
	Name     string `name:"name" help:"Container name"`
	Port     int    `name:"port" default:"8080" help:"Host port published for API_PORT"`
	ModelDir string `name:"model-dir" help:"Local model directory mounted at /opt/ml/model"`
	NoGPUs   bool   `name:"no-gpus" help:"Do not request GPUs"`
	Pull     bool   `name:"pull" help:"Pull the image before running"`
	Follow   bool   `short:"f" name:"follow" help:"Stream container logs until interrupted"`
}

// runLocal executes the 'local' command.
func runLocal(cli CLI, deps Dependencies) int {
	out := deps.Out
	userInterface, err := newUserInterface(cli, out)
	if err != nil {
		return exitWithError(out, err)
	}
	cmd := cli.Local

	file, err := loadDeployFile(cmd.Config)
	if err != nil {
		return exitWithError(out, err)
	}
	sync := true
	spec, err := resolveDeploySpec(DeployCmd{ModelFlags: cmd.ModelFlags, ImageURI: cmd.ImageURI, Sync: &sync}, file)
	if err != nil {
		return exitWithError(out, err)
	}
	if spec.Model.IsZero() {
		return exitWithError(out, deployment.ErrModelRequired)
	}
	if spec.ImageURI == "" {
		return exitWithError(out, fmt.Errorf("image uri is required"))
	}
	if spec.Model.IsS3() && cmd.ModelDir == "" {
		return exitWithError(out, fmt.Errorf("s3 model sources need --model-dir with a local copy (see %s fetch)", meta.AppName))
	}

	env := deployment.BuildEnvironment(spec)
	modelDir := ""
	if cmd.ModelDir != "" {
		modelDir, err = filepath.Abs(cmd.ModelDir)
		if err != nil {
			return exitWithError(out, err)
		}
		env[constants.EnvModelID] = meta.ModelMountPath
	}

	newClient := deps.Local.DockerClient
	if newClient == nil {
		newClient = localrun.NewDockerClient
	}
	client, err := newClient()
	if err != nil {
		return exitWithError(out, fmt.Errorf("docker client: %w", err))
	}
	if closer, ok := client.(io.Closer); ok {
		defer closer.Close()
	}

	userInterface.Env("Container environment", env.Redacted())
	runner := localrun.Runner{Client: client, Stdout: out, Stderr: deps.ErrOut}
	id, err := runner.Run(deps.Context, localrun.RunSpec{
		Image:    spec.ImageURI,
		Name:     cmd.Name,
		Env:      env,
		Port:     meta.DefaultAPIPort,
		HostPort: cmd.Port,
		ModelDir: modelDir,
		GPUs:     !cmd.NoGPUs,
		Pull:     cmd.Pull,
	})
	if err != nil {
		return exitWithError(out, err)
	}
	userInterface.Success(fmt.Sprintf("Started container %s (http://localhost:%d)", id, cmd.Port))

	if cmd.Follow {
		if err := runner.Follow(deps.Context, id); err != nil {
			return exitWithError(out, err)
		}
	}
	return 0
}
