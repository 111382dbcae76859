package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/vango-dev/reflex/internal/config"
	"github.com/vango-dev/reflex/pkg/snapshot"
)

// snapshotStore reads and writes one snapshot.
type snapshotStore interface {
	snapshot.Source
	snapshot.Sink
}

// openSnapshot resolves ref to a store. s3://bucket/key refs use S3 with
// the region and endpoint from cfg; anything else is a file path.
func openSnapshot(ctx context.Context, ref string, cfg *config.Config) (snapshotStore, error) {
	rest, ok := strings.CutPrefix(ref, "s3://")
	if !ok {
		return snapshot.NewFileSource(ref), nil
	}
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return nil, fmt.Errorf("invalid s3 reference %q: want s3://bucket/key", ref)
	}
	return s3Source(ctx, cfg, bucket, key)
}

// configuredSnapshot returns the store named by reflex.json, or nil.
func configuredSnapshot(ctx context.Context, cfg *config.Config) (snapshotStore, error) {
	switch {
	case cfg.UsesS3():
		return s3Source(ctx, cfg, cfg.Snapshot.Bucket, cfg.Snapshot.Key)
	case cfg.HasSnapshot():
		return snapshot.NewFileSource(cfg.SnapshotPath()), nil
	default:
		return nil, nil
	}
}

func s3Source(ctx context.Context, cfg *config.Config, bucket, key string) (snapshotStore, error) {
	client, err := snapshot.NewS3Client(ctx, snapshot.S3Config{
		Region:   cfg.Snapshot.Region,
		Endpoint: cfg.Snapshot.Endpoint,
	})
	if err != nil {
		return nil, err
	}
	return snapshot.NewS3Source(client, bucket, key), nil
}

// loadInitial loads the hydration snapshot named by ref, or by reflex.json
// when ref is empty. It returns nil when neither names one.
func loadInitial(ctx context.Context, cfg *config.Config, ref string) (any, error) {
	var (
		store snapshotStore
		err   error
	)
	if ref != "" {
		store, err = openSnapshot(ctx, ref, cfg)
	} else {
		store, err = configuredSnapshot(ctx, cfg)
	}
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, nil
	}

	snap, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap, nil
}
