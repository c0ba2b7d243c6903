// Where: internal/infra/hub/downloader.go
// What: Repository snapshots through the model hub's own command-line client.
// Why: Transfer, resume and auth belong to the hub client; this side only runs it and reports totals.
package hub

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/poruru-code/smvllm/internal/constants"
	"github.com/poruru-code/smvllm/internal/domain/snapshot"
	"github.com/poruru-code/smvllm/internal/infra/fileops"
	"github.com/poruru-code/smvllm/internal/launcher"
	"github.com/poruru-code/smvllm/internal/meta"
	"github.com/rs/zerolog"
)

// metadataDir is where the hub client keeps its bookkeeping inside --local-dir.
const metadataDir = ".cache"

// Downloader runs `<Bin> download` for one repository revision.
type Downloader struct {
	Bin      string
	Endpoint string
	Token    string
	Runner   launcher.Runner
}

// NewDownloader returns a downloader that runs bin (default huggingface-cli)
// with the process stdio. Endpoint and token reach the child through its
// environment, never its argv.
func NewDownloader(bin, endpoint, token string) *Downloader {
	d := &Downloader{
		Bin:      strings.TrimSpace(bin),
		Endpoint: strings.TrimSpace(endpoint),
		Token:    strings.TrimSpace(token),
	}
	if d.Bin == "" {
		d.Bin = meta.DefaultHubCLI
	}
	runner := launcher.NewProcessRunner()
	runner.Env = d.Environ(os.Environ())
	d.Runner = runner
	return d
}

// Argv returns the hub client invocation that materialises repo@revision in dir.
func (d *Downloader) Argv(repo, revision, dir string) []string {
	return []string{d.Bin, "download", repo, "--revision", revision, "--local-dir", dir}
}

// Environ appends the endpoint and token settings to base. Later entries win.
func (d *Downloader) Environ(base []string) []string {
	env := append([]string{}, base...)
	if d.Endpoint != "" {
		env = append(env, constants.EnvHubEndpoint+"="+d.Endpoint)
	}
	if d.Token != "" {
		env = append(env, constants.EnvHFToken+"="+d.Token)
	}
	return env
}

// Snapshot downloads repo@revision into dir and returns the totals of what
// the directory holds afterwards.
func (d *Downloader) Snapshot(ctx context.Context, repo, revision, dir string, log zerolog.Logger) (snapshot.Stats, error) {
	if d.Runner == nil {
		return snapshot.Stats{}, fmt.Errorf("hub downloader has no runner")
	}
	if err := fileops.EnsureDir(dir); err != nil {
		return snapshot.Stats{}, fmt.Errorf("create %s: %w", dir, err)
	}
	argv := d.Argv(repo, revision, dir)
	log.Debug().Strs("argv", argv).Msg("running hub client")

	code, err := d.Runner.Run(ctx, argv)
	if err != nil {
		return snapshot.Stats{}, err
	}
	if code != 0 {
		return snapshot.Stats{}, fmt.Errorf("%s download %s@%s exited with code %d", d.Bin, repo, revision, code)
	}
	return snapshot.Scan(dir, metadataDir)
}
