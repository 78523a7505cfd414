package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ccops-lab/caseflow/pkg/domain/types"
)

// RecordID is a UUID-based identifier for ProcessingRecord
type RecordID string

// NewRecordID generates a new UUID v4 RecordID
func NewRecordID() RecordID {
	return RecordID(uuid.New().String())
}

// String returns the string representation of the record ID
func (id RecordID) String() string {
	return string(id)
}

// ProcessingRecord captures one completed processing request: what came
// in and what the provider returned. Records exist for operational
// review only; request handling never reads them back.
type ProcessingRecord struct {
	ID        RecordID         `json:"id"`
	Kind      types.RecordKind `json:"kind"`
	Input     string           `json:"input"` // filename for uploads, text snippet for /text
	SizeBytes int64            `json:"size_bytes"`
	Result    json.RawMessage  `json:"result,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
