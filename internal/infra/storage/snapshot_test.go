// Where: internal/infra/storage/snapshot_test.go
// What: Tests for S3 prefix snapshots.
// Why: Cover listing, skip and region resolution without AWS access.
package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type fakeS3 struct {
	objects map[string]string
	listErr error
	bucket  string
	prefix  string
	gets    []string
}

func (f *fakeS3) ListObjects(_ context.Context, bucket, prefix string) ([]Object, error) {
	f.bucket = bucket
	f.prefix = prefix
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []Object
	for key, body := range f.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, Object{Key: key, Size: int64(len(body))})
		}
	}
	return out, nil
}

func (f *fakeS3) GetObject(_ context.Context, _ string, key string) (io.ReadCloser, error) {
	f.gets = append(f.gets, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestSnapshotCopiesPrefix(t *testing.T) {
	api := &fakeS3{objects: map[string]string{
		"models/qwen/config.json":              "{}",
		"models/qwen/shards/model.safetensors": "weights",
		"models/qwen/":                         "",
		"models/other/config.json":             "x",
	}}
	dir := t.TempDir()

	stats, err := Snapshot(context.Background(), api, "s3://bucket/models/qwen", dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if api.bucket != "bucket" || api.prefix != "models/qwen/" {
		t.Fatalf("unexpected listing %s %s", api.bucket, api.prefix)
	}
	if stats.Files != 2 || stats.Bytes != 9 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	got, err := os.ReadFile(filepath.Join(dir, "shards", "model.safetensors"))
	if err != nil || string(got) != "weights" {
		t.Fatalf("unexpected content %q: %v", got, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "other")); !os.IsNotExist(err) {
		t.Fatalf("objects outside the prefix must not be copied")
	}
}

func TestSnapshotSkipsMatchingSize(t *testing.T) {
	api := &fakeS3{objects: map[string]string{"p/config.json": "{}"}}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{}"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	stats, err := Snapshot(context.Background(), api, "s3://bucket/p/", dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if stats.Skipped != 1 || len(api.gets) != 0 {
		t.Fatalf("expected skip, stats=%+v gets=%v", stats, api.gets)
	}
}

func TestSnapshotErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Snapshot(context.Background(), &fakeS3{}, "s3://bucket/empty/", dir, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for empty prefix")
	}
	listErr := errors.New("AccessDenied")
	_, err := Snapshot(context.Background(), &fakeS3{listErr: listErr}, "s3://bucket/p/", dir, zerolog.Nop())
	if !errors.Is(err, listErr) {
		t.Fatalf("expected wrapped list error, got %v", err)
	}
	if _, err := Snapshot(context.Background(), &fakeS3{}, "s3:///p/", dir, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for missing bucket")
	}
}

func TestResolveRegion(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-west-1")
	if got := resolveRegion(""); got != "eu-west-1" {
		t.Fatalf("expected env region, got %q", got)
	}
	if got := resolveRegion("ap-northeast-1"); got != "ap-northeast-1" {
		t.Fatalf("expected flag region, got %q", got)
	}
}
