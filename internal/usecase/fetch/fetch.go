// Where: internal/usecase/fetch/fetch.go
// What: Model fetch workflow (hub repository or S3 prefix into a local directory).
// Why: Keep source selection, metrics and reporting out of the CLI layer.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poruru-code/smvllm/internal/constants"
	"github.com/poruru-code/smvllm/internal/domain/deployment"
	"github.com/poruru-code/smvllm/internal/domain/snapshot"
	"github.com/poruru-code/smvllm/internal/infra/envutil"
	"github.com/poruru-code/smvllm/internal/infra/hub"
	"github.com/poruru-code/smvllm/internal/infra/storage"
	"github.com/poruru-code/smvllm/internal/infra/ui"
	"github.com/poruru-code/smvllm/internal/meta"
	"github.com/poruru-code/smvllm/internal/metrics"
	"github.com/rs/zerolog"
)

var (
	ErrModelIDNotSet = errors.New("ERROR: MODEL_ID environment variable not set")
	ErrDownload      = errors.New("ERROR downloading model")
)

// Request captures the inputs of one fetch.
type Request struct {
	ModelID     string
	Token       string
	HubCLI      string
	HubEndpoint string
	Revision    string
	LocalDir    string
	Region      string
	MetricsFile string
}

// RequestFromEnv fills a Request from MODEL_ID, HF_TOKEN, HF_CLI_BIN,
// HF_ENDPOINT and MODEL_REVISION.
func RequestFromEnv(env envutil.Lookup) Request {
	return Request{
		ModelID:     env.Value(constants.EnvModelID),
		Token:       env.Value(constants.EnvHFToken),
		HubCLI:      env.String(constants.EnvHubCLI, meta.DefaultHubCLI),
		HubEndpoint: env.Value(constants.EnvHubEndpoint),
		Revision:    env.String(constants.EnvModelRevision, meta.DefaultHubRevision),
		LocalDir:    meta.DefaultLocalModelDir,
	}
}

// HubSnapshotter copies a hub repository revision into a directory.
type HubSnapshotter interface {
	Snapshot(ctx context.Context, repo, revision, dir string, log zerolog.Logger) (snapshot.Stats, error)
}

// Workflow runs a fetch.
type Workflow struct {
	NewHub func(bin, endpoint, token string) HubSnapshotter
	NewS3  func(ctx context.Context, region string) (storage.S3API, error)
	UI     ui.UserInterface
	Log    zerolog.Logger
	Now    func() time.Time
}

// NewWorkflow wires the hub client and SDK backed sources.
func NewWorkflow(userInterface ui.UserInterface, log zerolog.Logger) Workflow {
	return Workflow{
		NewHub: func(bin, endpoint, token string) HubSnapshotter { return hub.NewDownloader(bin, endpoint, token) },
		NewS3:  storage.NewS3Client,
		UI:     userInterface,
		Log:    log,
		Now:    time.Now,
	}
}

// Run copies the model into req.LocalDir. Download failures are wrapped in ErrDownload.
func (w Workflow) Run(ctx context.Context, req Request) (snapshot.Stats, error) {
	if req.ModelID == "" {
		return snapshot.Stats{}, ErrModelIDNotSet
	}
	source, err := deployment.ParseModelSource(req.ModelID)
	if err != nil {
		return snapshot.Stats{}, fmt.Errorf("%w: %w", ErrDownload, err)
	}
	localDir := req.LocalDir
	if localDir == "" {
		localDir = meta.DefaultLocalModelDir
	}
	revision := req.Revision
	if revision == "" {
		revision = meta.DefaultHubRevision
	}
	now := w.Now
	if now == nil {
		now = time.Now
	}

	sourceKind := "hub"
	if source.IsS3() {
		sourceKind = "s3"
	}
	log := w.Log.With().Str("model", source.String()).Str("dir", localDir).Logger()
	log.Info().Str("source", sourceKind).Msg("downloading model")

	started := now()
	stats, err := w.copy(ctx, source, revision, localDir, req, log)
	elapsed := now().Sub(started)

	if req.MetricsFile != "" {
		m := metrics.NewFetch(sourceKind)
		m.Observe(stats, elapsed, err, now())
		if werr := m.WriteTextfile(req.MetricsFile); werr != nil {
			log.Warn().Err(werr).Msg("metrics not written")
		}
	}
	if err != nil {
		return stats, fmt.Errorf("%w: %w", ErrDownload, err)
	}

	log.Info().
		Int("files", stats.Files).
		Int("skipped", stats.Skipped).
		Int64("bytes", stats.Bytes).
		Dur("elapsed", elapsed).
		Msg("model downloaded")
	if w.UI != nil {
		w.UI.Success(fmt.Sprintf("Model downloaded to %s", localDir))
	}
	return stats, nil
}

func (w Workflow) copy(
	ctx context.Context,
	source deployment.ModelSource,
	revision, dir string,
	req Request,
	log zerolog.Logger,
) (snapshot.Stats, error) {
	if source.IsS3() {
		if w.NewS3 == nil {
			return snapshot.Stats{}, errors.New("s3 client is not configured")
		}
		api, err := w.NewS3(ctx, req.Region)
		if err != nil {
			return snapshot.Stats{}, err
		}
		return storage.Snapshot(ctx, api, source.S3URI, dir, log)
	}
	if w.NewHub == nil {
		return snapshot.Stats{}, errors.New("hub client is not configured")
	}
	return w.NewHub(req.HubCLI, req.HubEndpoint, req.Token).Snapshot(ctx, source.ID, revision, dir, log)
}
