package usecase

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ccops-lab/caseflow/pkg/domain/interfaces"
	"github.com/ccops-lab/caseflow/pkg/domain/model"
	"github.com/ccops-lab/caseflow/pkg/normalize"
)

// RecordUseCase exposes the processing history.
type RecordUseCase struct {
	repo interfaces.Repository
}

func NewRecordUseCase(repo interfaces.Repository) *RecordUseCase {
	return &RecordUseCase{repo: repo}
}

// Get returns one processing record by ID.
func (uc *RecordUseCase) Get(ctx context.Context, id model.RecordID) (*model.ProcessingRecord, error) {
	rec, err := uc.repo.Record().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	normalizeRecordResult(rec)
	return rec, nil
}

// List returns the most recent processing records, newest first.
func (uc *RecordUseCase) List(ctx context.Context, limit int) ([]*model.ProcessingRecord, error) {
	records, err := uc.repo.Record().List(ctx, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list processing records")
	}
	for _, rec := range records {
		normalizeRecordResult(rec)
	}
	return records, nil
}

// normalizeRecordResult parses optionally stringified insight fields in a
// stored result. Records written before structured extraction may hold
// case_priority_level, sentiment or dialogue_history as embedded JSON strings.
func normalizeRecordResult(rec *model.ProcessingRecord) {
	if len(rec.Result) == 0 {
		return
	}

	var m map[string]any
	if err := json.Unmarshal(rec.Result, &m); err != nil {
		return
	}

	normalize.Payload(m)
	if insights, ok := m["insights"].(map[string]any); ok {
		normalize.Payload(insights)
	}

	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	rec.Result = data
}
