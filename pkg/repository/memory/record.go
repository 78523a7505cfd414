package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ccops-lab/caseflow/pkg/domain/model"
)

type recordRepository struct {
	mu      sync.RWMutex
	records map[model.RecordID]*model.ProcessingRecord
}

func newRecordRepository() *recordRepository {
	return &recordRepository{
		records: make(map[model.RecordID]*model.ProcessingRecord),
	}
}

// copyRecord creates a deep copy of a processing record
func copyRecord(r *model.ProcessingRecord) *model.ProcessingRecord {
	copied := &model.ProcessingRecord{
		ID:        r.ID,
		Kind:      r.Kind,
		Input:     r.Input,
		SizeBytes: r.SizeBytes,
		CreatedAt: r.CreatedAt,
	}
	if r.Result != nil {
		copied.Result = make([]byte, len(r.Result))
		copy(copied.Result, r.Result)
	}
	return copied
}

func (r *recordRepository) Create(ctx context.Context, record *model.ProcessingRecord) (*model.ProcessingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyRecord(record)
	if created.ID == "" {
		created.ID = model.NewRecordID()
	}
	created.CreatedAt = time.Now().UTC()

	r.records[created.ID] = created
	return copyRecord(created), nil
}

func (r *recordRepository) Get(ctx context.Context, id model.RecordID) (*model.ProcessingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "record not found", goerr.V("id", id))
	}
	return copyRecord(record), nil
}

func (r *recordRepository) List(ctx context.Context, limit int) ([]*model.ProcessingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.ProcessingRecord, 0, len(r.records))
	for _, record := range r.records {
		result = append(result, copyRecord(record))
	}

	// newest first
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
