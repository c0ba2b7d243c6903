// Where: internal/usecase/fetch/fetch_test.go
// What: Tests for the fetch workflow.
// Why: Source selection and error messages are part of the container contract.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poruru-code/smvllm/internal/domain/snapshot"
	"github.com/poruru-code/smvllm/internal/infra/envutil"
	"github.com/poruru-code/smvllm/internal/infra/storage"
	"github.com/poruru-code/smvllm/internal/infra/ui"
	"github.com/rs/zerolog"
)

type fakeHub struct {
	repo, revision, dir  string
	bin, endpoint, token string
	stats                snapshot.Stats
	err                  error
}

func (f *fakeHub) Snapshot(_ context.Context, repo, revision, dir string, _ zerolog.Logger) (snapshot.Stats, error) {
	f.repo, f.revision, f.dir = repo, revision, dir
	return f.stats, f.err
}

type fakeS3 struct{ objects map[string]string }

func (f fakeS3) ListObjects(_ context.Context, _, prefix string) ([]storage.Object, error) {
	var out []storage.Object
	for key, body := range f.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.Object{Key: key, Size: int64(len(body))})
		}
	}
	return out, nil
}

func (f fakeS3) GetObject(_ context.Context, _, key string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.objects[key])), nil
}

func newWorkflow(h *fakeHub, out *bytes.Buffer) Workflow {
	return Workflow{
		NewHub: func(bin, endpoint, token string) HubSnapshotter {
			h.bin, h.endpoint, h.token = bin, endpoint, token
			return h
		},
		NewS3: func(context.Context, string) (storage.S3API, error) {
			return fakeS3{objects: map[string]string{"m/config.json": "{}"}}, nil
		},
		UI:  ui.NewUI(out, false),
		Log: zerolog.Nop(),
		Now: func() time.Time { return time.Unix(0, 0) },
	}
}

func TestRunRequiresModelID(t *testing.T) {
	h := &fakeHub{}
	_, err := newWorkflow(h, &bytes.Buffer{}).Run(context.Background(), Request{})
	if !errors.Is(err, ErrModelIDNotSet) {
		t.Fatalf("expected ErrModelIDNotSet, got %v", err)
	}
	if err.Error() != "ERROR: MODEL_ID environment variable not set" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if h.repo != "" {
		t.Fatalf("hub must not be called")
	}
}

func TestRunHubSource(t *testing.T) {
	h := &fakeHub{stats: snapshot.Stats{Files: 4, Bytes: 100}}
	var out bytes.Buffer
	req := RequestFromEnv(envutil.FromMap(map[string]string{
		"MODEL_ID":    "Qwen/Qwen2.5-7B-Instruct",
		"HF_TOKEN":    "hf_x",
		"HF_ENDPOINT": "https://hub.internal",
	}))

	stats, err := newWorkflow(h, &out).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Files != 4 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if h.repo != "Qwen/Qwen2.5-7B-Instruct" || h.revision != "main" || h.dir != "/opt/models" {
		t.Fatalf("unexpected snapshot call: %+v", h)
	}
	if h.token != "hf_x" || h.endpoint != "https://hub.internal" || h.bin != "huggingface-cli" {
		t.Fatalf("unexpected client config: %+v", h)
	}
	if !strings.Contains(out.String(), "Model downloaded to /opt/models") {
		t.Fatalf("missing success line: %q", out.String())
	}
}

func TestRunWrapsDownloadErrors(t *testing.T) {
	h := &fakeHub{err: errors.New("401 Unauthorized")}
	_, err := newWorkflow(h, &bytes.Buffer{}).Run(context.Background(), Request{ModelID: "org/private"})
	if !errors.Is(err, ErrDownload) {
		t.Fatalf("expected ErrDownload, got %v", err)
	}
	if err.Error() != "ERROR downloading model: 401 Unauthorized" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestRunS3SourceWritesMetrics(t *testing.T) {
	dir := t.TempDir()
	metricsFile := filepath.Join(dir, "fetch.prom")
	h := &fakeHub{}

	stats, err := newWorkflow(h, &bytes.Buffer{}).Run(context.Background(), Request{
		ModelID:     "s3://bucket/m",
		LocalDir:    filepath.Join(dir, "model"),
		MetricsFile: metricsFile,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Files != 1 || h.repo != "" {
		t.Fatalf("expected s3 copy only, stats=%+v hub=%+v", stats, h)
	}
	if _, err := os.Stat(filepath.Join(dir, "model", "config.json")); err != nil {
		t.Fatalf("expected copied object: %v", err)
	}
	data, err := os.ReadFile(metricsFile)
	if err != nil || !strings.Contains(string(data), `smvllm_fetch_files_downloaded{source="s3"} 1`) {
		t.Fatalf("unexpected metrics %q: %v", data, err)
	}
}
