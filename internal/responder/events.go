package responder

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Notification status values reported by the ingest pipeline.
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)

// ErrMalformedNotification marks an inbound message that fails boundary
// validation.
var ErrMalformedNotification = errors.New("malformed notification")

// Notification is a CNM response describing the outcome of one granule
// ingestion job.
type Notification struct {
	Identifier string  `json:"identifier"`
	Collection string  `json:"collection"`
	Trace      string  `json:"trace"`
	Response   Outcome `json:"response"`
	Product    Product `json:"product"`
}

// Outcome carries the ingestion result: the error fields are set on
// failure, the ingestion metadata on success.
type Outcome struct {
	Status            string            `json:"status"`
	ErrorCode         string            `json:"errorCode,omitempty"`
	ErrorMessage      string            `json:"errorMessage,omitempty"`
	IngestionMetadata IngestionMetadata `json:"ingestionMetadata,omitempty"`
}

type IngestionMetadata struct {
	CatalogID string `json:"catalogId"`
}

type Product struct {
	Files []ProductFile `json:"files"`
}

// ProductFile is one staged file produced by the pipeline.
type ProductFile struct {
	Name     string `json:"name"`
	Checksum string `json:"checksum"`
}

// ParseNotification decodes and validates an inbound CNM response payload.
func ParseNotification(payload []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedNotification, err)
	}

	if n.Identifier == "" {
		return nil, fmt.Errorf("%w: missing identifier", ErrMalformedNotification)
	}
	if n.Collection == "" {
		return nil, fmt.Errorf("%w: missing collection", ErrMalformedNotification)
	}

	switch n.Response.Status {
	case StatusFailure:
	case StatusSuccess:
		if n.Response.IngestionMetadata.CatalogID == "" {
			return nil, fmt.Errorf("%w: success response missing catalogId", ErrMalformedNotification)
		}
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrMalformedNotification, n.Response.Status)
	}

	return &n, nil
}
