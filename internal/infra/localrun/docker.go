// Where: internal/infra/localrun/docker.go
// What: Run the serving image locally through the Docker Engine API.
// Why: Reproduce the endpoint container on a workstation before paying for SageMaker.
package localrun

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/poruru-code/smvllm/internal/meta"
)

// DockerClient is the subset of the Docker SDK used by Runner.
type DockerClient interface {
	ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error)
	ContainerCreate(
		ctx context.Context,
		config *container.Config,
		hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig,
		platform *ocispec.Platform,
		containerName string,
	) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
}

// NewDockerClient constructs a Docker SDK client using environment defaults.
func NewDockerClient() (DockerClient, error) {
	return client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
}

// RunSpec describes one local container.
type RunSpec struct {
	Image    string
	Name     string
	Env      map[string]string
	Port     int
	HostPort int
	ModelDir string
	GPUs     bool
	Pull     bool
}

// Runner starts serving containers.
type Runner struct {
	Client DockerClient
	Stdout io.Writer
	Stderr io.Writer
}

// Run creates and starts the container and returns its ID.
func (r Runner) Run(ctx context.Context, spec RunSpec) (string, error) {
	if spec.Image == "" {
		return "", fmt.Errorf("image is required")
	}
	if spec.Pull {
		if err := r.pull(ctx, spec.Image); err != nil {
			return "", err
		}
	}
	config, hostConfig := buildContainerConfig(spec)
	created, err := r.Client.ContainerCreate(ctx, config, hostConfig, nil, nil, spec.Name)
	if err != nil {
		return "", fmt.Errorf("create container: %w", err)
	}
	if err := r.Client.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return created.ID, fmt.Errorf("start container %s: %w", shortID(created.ID), err)
	}
	return created.ID, nil
}

// Follow streams the container logs until the container exits or ctx is cancelled.
func (r Runner) Follow(ctx context.Context, containerID string) error {
	logs, err := r.Client.ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return fmt.Errorf("logs %s: %w", shortID(containerID), err)
	}
	defer logs.Close()
	if _, err := stdcopy.StdCopy(r.Stdout, r.Stderr, logs); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream logs: %w", err)
	}
	return nil
}

func (r Runner) pull(ctx context.Context, ref string) error {
	progress, err := r.Client.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull %s: %w", ref, err)
	}
	defer progress.Close()
	if _, err := io.Copy(io.Discard, progress); err != nil {
		return fmt.Errorf("pull %s: %w", ref, err)
	}
	return nil
}

func buildContainerConfig(spec RunSpec) (*container.Config, *container.HostConfig) {
	port := spec.Port
	if port == 0 {
		port = meta.DefaultAPIPort
	}
	hostPort := spec.HostPort
	if hostPort == 0 {
		hostPort = port
	}
	containerPort := nat.Port(strconv.Itoa(port) + "/tcp")

	config := &container.Config{
		Image:        spec.Image,
		Env:          envList(spec.Env),
		ExposedPorts: nat.PortSet{containerPort: struct{}{}},
		Labels:       map[string]string{"app": meta.AppName},
	}
	hostConfig := &container.HostConfig{
		PortBindings: nat.PortMap{
			containerPort: []nat.PortBinding{{HostPort: strconv.Itoa(hostPort)}},
		},
		IpcMode: container.IpcMode("host"),
	}
	if spec.GPUs {
		hostConfig.DeviceRequests = []container.DeviceRequest{{
			Count:        -1,
			Capabilities: [][]string{{"gpu"}},
		}}
	}
	if spec.ModelDir != "" {
		hostConfig.Mounts = []mount.Mount{{
			Type:     mount.TypeBind,
			Source:   spec.ModelDir,
			Target:   meta.ModelMountPath,
			ReadOnly: true,
		}}
	}
	return config, hostConfig
}

func envList(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, key+"="+values[key])
	}
	return out
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
