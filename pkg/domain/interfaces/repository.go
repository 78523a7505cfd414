package interfaces

import (
	"context"

	"github.com/ccops-lab/caseflow/pkg/domain/model"
)

// Repository defines the interface for data persistence
type Repository interface {
	Record() RecordRepository
	Close() error
}

// RecordRepository stores processing result records
type RecordRepository interface {
	Create(ctx context.Context, record *model.ProcessingRecord) (*model.ProcessingRecord, error)
	Get(ctx context.Context, id model.RecordID) (*model.ProcessingRecord, error)
	List(ctx context.Context, limit int) ([]*model.ProcessingRecord, error)
}
