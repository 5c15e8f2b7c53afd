package responder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/your-org/cnm-responder/internal/catalog"
	"github.com/your-org/cnm-responder/pkg/storage/objectstore"
)

// StagedRemover deletes confirmed granule copies from the staging bucket.
type StagedRemover struct {
	store        objectstore.Client
	bucketSuffix string
	logger       *zap.Logger
}

// NewStagedRemover constructs a StagedRemover.
func NewStagedRemover(store objectstore.Client, bucketSuffix string, logger *zap.Logger) *StagedRemover {
	return &StagedRemover{
		store:        store,
		bucketSuffix: bucketSuffix,
		logger:       logger,
	}
}

// Remove deletes every produced file whose checksum matches the catalog's
// record for its kind, and returns the names of files that did not match.
// All files are processed before mismatches are reported; a storage error
// aborts immediately.
func (r *StagedRemover) Remove(ctx context.Context, checksums catalog.Checksums, prefix, subdir string, files []ProductFile) ([]string, error) {
	bucket := prefix + r.bucketSuffix

	var mismatches []string
	for _, file := range files {
		kind, ok := catalog.KindOf(file.Name)
		if !ok {
			continue
		}

		recorded, ok := checksums[kind]
		if !ok || file.Checksum != recorded {
			mismatches = append(mismatches, file.Name)
			continue
		}

		key := subdir + "/" + file.Name
		if err := r.store.Remove(ctx, bucket, key); err != nil {
			return nil, fmt.Errorf("delete %s from %s: %w", key, bucket, err)
		}
		r.logger.Info("deleted staged file",
			zap.String("bucket", bucket),
			zap.String("key", key),
		)
	}

	return mismatches, nil
}
