// Package archive stores build results in blob storage.
//
// The bucket is addressed by a gocloud.dev URL: file:///var/lib/barn/results
// for a local directory or s3://bucket?region=eu-west-1 for S3 and
// S3-compatible stores. Each result becomes one JSON object under
// <prefix>/<job>/<started>-<build id>.json.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/cruciblehq/barn/internal/build"
	"github.com/cruciblehq/barn/internal/logfields"
	"github.com/cruciblehq/barn/internal/orchestrator"
)

var (
	ErrBucket  = errors.New("failed to open archive bucket")
	ErrArchive = errors.New("failed to archive build result")
)

// Writes build results to a bucket.
type Archive struct {
	bucket *blob.Bucket
	prefix string
}

// Opens the bucket at bucketURL. Objects are written under prefix.
func Open(ctx context.Context, bucketURL, prefix string) (*Archive, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBucket, err)
	}
	return New(bucket, prefix), nil
}

// Wraps an already opened bucket.
func New(bucket *blob.Bucket, prefix string) *Archive {
	return &Archive{bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Stores result and returns the object key.
func (a *Archive) Store(ctx context.Context, result *build.Result) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrArchive, err)
	}

	key := a.key(result.ClientInfo)
	opts := &blob.WriterOptions{ContentType: "application/json"}
	if err := a.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return "", fmt.Errorf("%w: %w", ErrArchive, err)
	}

	slog.Debug("archived build result", logfields.Job(result.ClientInfo.Job), logfields.Path(key))
	return key, nil
}

// Closes the bucket.
func (a *Archive) Close() error {
	return a.bucket.Close()
}

// Returns the object key for a result.
func (a *Archive) key(info build.ClientInfo) string {
	name := fmt.Sprintf("%s-%s.json", info.Started.UTC().Format("20060102T150405Z"), info.BuildID)
	return path.Join(a.prefix, info.Job, name)
}

// Archives the result of every invocation that ran. Skipped invocations are
// not archived.
type Sink struct {
	Archive *Archive
}

var _ orchestrator.Sink = Sink{}

func (Sink) Name() string {
	return "archive"
}

func (s Sink) Record(ctx context.Context, outcome orchestrator.Outcome) error {
	if outcome.Result == nil {
		return nil
	}
	_, err := s.Archive.Store(ctx, outcome.Result)
	return err
}
