package responder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/your-org/cnm-responder/internal/catalog"
	"github.com/your-org/cnm-responder/internal/responder"
)

type removal struct {
	bucket string
	key    string
}

type fakeStore struct {
	removed []removal
	err     error
}

func (f *fakeStore) Remove(ctx context.Context, bucket, key string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, removal{bucket: bucket, key: key})
	return nil
}

func (f *fakeStore) Close() error { return nil }

func TestStagedRemoverDeletesMatchingFiles(t *testing.T) {
	store := &fakeStore{}
	remover := responder.NewStagedRemover(store, "-l2p-granules", zap.NewNop())

	checksums := catalog.Checksums{
		catalog.KindNetCDF: "abc123",
		catalog.KindMD5:    "def456",
	}
	files := []responder.ProductFile{
		{Name: "granule.nc", Checksum: "abc123"},
		{Name: "granule.nc.md5", Checksum: "def456"},
	}

	mismatches, err := remover.Remove(context.Background(), checksums, "podaac-ops-cumulus", "aqua", files)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
	assert.Equal(t, []removal{
		{bucket: "podaac-ops-cumulus-l2p-granules", key: "aqua/granule.nc"},
		{bucket: "podaac-ops-cumulus-l2p-granules", key: "aqua/granule.nc.md5"},
	}, store.removed)
}

func TestStagedRemoverCollectsMismatchesAfterFullPass(t *testing.T) {
	store := &fakeStore{}
	remover := responder.NewStagedRemover(store, "-l2p-granules", zap.NewNop())

	checksums := catalog.Checksums{
		catalog.KindNetCDF: "abc123",
		catalog.KindMD5:    "def456",
	}
	files := []responder.ProductFile{
		{Name: "granule.nc", Checksum: "wrong"},
		{Name: "granule.nc.md5", Checksum: "def456"},
	}

	mismatches, err := remover.Remove(context.Background(), checksums, "podaac-ops-cumulus", "aqua", files)
	require.NoError(t, err)
	assert.Equal(t, []string{"granule.nc"}, mismatches)
	// The matching file is still deleted.
	assert.Equal(t, []removal{
		{bucket: "podaac-ops-cumulus-l2p-granules", key: "aqua/granule.nc.md5"},
	}, store.removed)
}

func TestStagedRemoverTreatsMissingCatalogKindAsMismatch(t *testing.T) {
	store := &fakeStore{}
	remover := responder.NewStagedRemover(store, "-l2p-granules", zap.NewNop())

	// The catalog has no record for the sidecar kind; an empty produced
	// checksum must not compare equal to the missing entry.
	checksums := catalog.Checksums{catalog.KindNetCDF: "abc123"}
	files := []responder.ProductFile{
		{Name: "granule.nc", Checksum: "abc123"},
		{Name: "granule.nc.md5", Checksum: ""},
	}

	mismatches, err := remover.Remove(context.Background(), checksums, "podaac-ops-cumulus", "aqua", files)
	require.NoError(t, err)
	assert.Equal(t, []string{"granule.nc.md5"}, mismatches)
	assert.Equal(t, []removal{
		{bucket: "podaac-ops-cumulus-l2p-granules", key: "aqua/granule.nc"},
	}, store.removed)
}

func TestStagedRemoverSkipsUntrackedSuffixes(t *testing.T) {
	store := &fakeStore{}
	remover := responder.NewStagedRemover(store, "-l2p-granules", zap.NewNop())

	files := []responder.ProductFile{
		{Name: "granule.cmr.json", Checksum: "abc123"},
	}

	mismatches, err := remover.Remove(context.Background(), catalog.Checksums{}, "podaac-ops-cumulus", "aqua", files)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
	assert.Empty(t, store.removed)
}

func TestStagedRemoverPropagatesStoreErrors(t *testing.T) {
	store := &fakeStore{err: errors.New("access denied")}
	remover := responder.NewStagedRemover(store, "-l2p-granules", zap.NewNop())

	checksums := catalog.Checksums{catalog.KindNetCDF: "abc123"}
	files := []responder.ProductFile{
		{Name: "granule.nc", Checksum: "abc123"},
	}

	_, err := remover.Remove(context.Background(), checksums, "podaac-ops-cumulus", "aqua", files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
