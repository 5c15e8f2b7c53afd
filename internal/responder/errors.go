package responder

import (
	"fmt"
	"strings"
)

// IngestFailedError reports an upstream ingestion failure announced by the
// notification itself.
type IngestFailedError struct {
	Granule    string
	Collection string
	Code       string
	Message    string
}

func (e *IngestFailedError) Error() string {
	return fmt.Sprintf("ingestion failed for %s in %s: %s: %s", e.Granule, e.Collection, e.Code, e.Message)
}

// VerificationError reports a granule the catalog has no record of.
type VerificationError struct {
	Granule    string
	Collection string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("search failed for %s from %s", e.Granule, e.Collection)
}

// ChecksumMismatchError reports staged files whose checksums disagree with
// the catalog's records. Deletion was attempted for all matching files
// before this error was raised.
type ChecksumMismatchError struct {
	Files []string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksums did not match catalog records: %s", strings.Join(e.Files, ", "))
}

// UnknownDatasetError reports a granule dataset code with no configured
// staging or output location.
type UnknownDatasetError struct {
	Code string
}

func (e *UnknownDatasetError) Error() string {
	return fmt.Sprintf("unknown dataset code %q", e.Code)
}
