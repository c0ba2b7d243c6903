// Where: internal/infra/storage/snapshot.go
// What: Copy every object below an S3 prefix into a local directory.
// Why: Weights staged in S3 load from the same plain directory as hub downloads.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/poruru-code/smvllm/internal/domain/deployment"
	"github.com/poruru-code/smvllm/internal/domain/snapshot"
	"github.com/poruru-code/smvllm/internal/infra/fileops"
	"github.com/rs/zerolog"
)

// Snapshot copies the objects below uri (s3://bucket/prefix) into dir, keeping
// their paths relative to the prefix. Objects whose local copy already has the
// same size are skipped.
func Snapshot(ctx context.Context, api S3API, uri, dir string, log zerolog.Logger) (snapshot.Stats, error) {
	var stats snapshot.Stats
	bucket, prefix, err := deployment.SplitS3URI(uri)
	if err != nil {
		return stats, err
	}
	if bucket == "" {
		return stats, fmt.Errorf("%s: missing bucket", uri)
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	objects, err := api.ListObjects(ctx, bucket, prefix)
	if err != nil {
		return stats, fmt.Errorf("list %s: %w", uri, err)
	}
	if len(objects) == 0 {
		return stats, fmt.Errorf("no objects found under %s", uri)
	}
	for _, object := range objects {
		rel := strings.TrimPrefix(object.Key, prefix)
		if rel == "" || strings.HasSuffix(rel, "/") {
			continue
		}
		dest, err := snapshot.LocalPath(dir, rel)
		if err != nil {
			return stats, err
		}
		if snapshot.UpToDate(dest, object.Size) {
			stats.Skipped++
			log.Debug().Str("file", rel).Msg("already present")
			continue
		}
		n, err := copyObject(ctx, api, bucket, object.Key, dest)
		stats.Bytes += n
		if err != nil {
			return stats, err
		}
		stats.Files++
		log.Info().Str("file", rel).Int64("bytes", n).Msg("downloaded")
	}
	return stats, nil
}

func copyObject(ctx context.Context, api S3API, bucket, key, dest string) (int64, error) {
	body, err := api.GetObject(ctx, bucket, key)
	if err != nil {
		return 0, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer body.Close()

	written, err := fileops.CopyToFile(dest, body)
	if err != nil {
		return written, fmt.Errorf("download s3://%s/%s: %w", bucket, key, err)
	}
	return written, nil
}
