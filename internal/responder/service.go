package responder

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/your-org/cnm-responder/internal/catalog"
)

// CatalogSearcher looks a granule up in the metadata catalog.
type CatalogSearcher interface {
	FindGranule(ctx context.Context, trace, shortName, granule string) (catalog.Checksums, error)
}

// Service drives verification and cleanup for one CNM response at a time.
// It returns typed errors instead of exiting so the invocation boundary
// decides process termination.
type Service struct {
	catalog      CatalogSearcher
	staged       *StagedRemover
	output       *OutputRemover
	removeOutput bool
	logger       *zap.Logger
	tracer       trace.Tracer

	handled atomic.Uint64
	failed  atomic.Uint64
}

type Params struct {
	Catalog      CatalogSearcher
	Staged       *StagedRemover
	Output       *OutputRemover
	RemoveOutput bool
	Logger       *zap.Logger
}

// Stats reports handled-notification counters for the ops surface.
type Stats struct {
	Handled uint64 `json:"handled"`
	Failed  uint64 `json:"failed"`
}

// NewService constructs a responder Service.
func NewService(p Params) *Service {
	return &Service{
		catalog:      p.Catalog,
		staged:       p.Staged,
		output:       p.Output,
		removeOutput: p.RemoveOutput,
		logger:       p.Logger,
		tracer:       otel.Tracer("responder"),
	}
}

// Handle processes one ingestion notification: verify the granule against
// the catalog, delete its staged copies, and clean the shared output tree.
// Any returned error is terminal for the invocation.
func (s *Service) Handle(ctx context.Context, n *Notification) error {
	ctx, span := s.tracer.Start(ctx, "responder.Handle",
		trace.WithAttributes(
			attribute.String("granule", n.Identifier),
			attribute.String("collection", n.Collection),
		))
	defer span.End()

	logr := s.logger.With(
		zap.String("granule", n.Identifier),
		zap.String("collection", n.Collection),
		zap.String("invocation", uuid.NewString()),
	)

	s.handled.Add(1)
	err := s.handle(ctx, n, logr)
	if err != nil {
		s.failed.Add(1)
		span.RecordError(err)
	}
	return err
}

func (s *Service) handle(ctx context.Context, n *Notification, logr *zap.Logger) error {
	if n.Response.Status == StatusFailure {
		logr.Error("pipeline reported ingestion failure",
			zap.String("code", n.Response.ErrorCode),
			zap.String("message", n.Response.ErrorMessage),
		)
		return &IngestFailedError{
			Granule:    n.Identifier,
			Collection: n.Collection,
			Code:       n.Response.ErrorCode,
			Message:    n.Response.ErrorMessage,
		}
	}

	logr.Info("granule possibly ingested, confirming against catalog")
	checksums, err := s.catalog.FindGranule(ctx, n.Trace, n.Response.IngestionMetadata.CatalogID, n.Identifier)
	if err != nil {
		return fmt.Errorf("search for %s from %s: %w", n.Identifier, n.Collection, err)
	}
	if len(checksums) == 0 {
		return &VerificationError{Granule: n.Identifier, Collection: n.Collection}
	}
	logr.Info("found granule in catalog")

	name, err := ParseGranuleName(n.Identifier)
	if err != nil {
		return err
	}
	subdir, err := name.StagingSubdir()
	if err != nil {
		return err
	}

	mismatches, err := s.staged.Remove(ctx, checksums, n.Trace, subdir, n.Product.Files)
	if err != nil {
		return err
	}
	if len(mismatches) > 0 {
		for _, file := range mismatches {
			logr.Error("staged checksum does not match catalog record", zap.String("file", file))
		}
		return &ChecksumMismatchError{Files: mismatches}
	}

	if s.removeOutput && s.output != nil {
		logr.Info("removing granule from processor output")
		if err := s.output.Remove(n.Identifier + ".nc"); err != nil {
			return fmt.Errorf("remove output files: %w", err)
		}
	}

	return nil
}

// Stats returns a snapshot of the handled-notification counters.
func (s *Service) Stats() Stats {
	return Stats{
		Handled: s.handled.Load(),
		Failed:  s.failed.Load(),
	}
}
