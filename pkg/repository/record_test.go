package repository_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/ccops-lab/caseflow/pkg/domain/interfaces"
	"github.com/ccops-lab/caseflow/pkg/domain/model"
	"github.com/ccops-lab/caseflow/pkg/domain/types"
	"github.com/ccops-lab/caseflow/pkg/repository/firestore"
	"github.com/ccops-lab/caseflow/pkg/repository/memory"
)

func runRecordRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and timestamp", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		result, err := json.Marshal(map[string]string{"transcription": "hello"})
		gt.NoError(t, err).Required()

		created, err := repo.Record().Create(ctx, &model.ProcessingRecord{
			Kind:      types.RecordKindAudioWhisper,
			Input:     "call-recording.wav",
			SizeBytes: 2048,
			Result:    result,
		})
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID).NotEqual(model.RecordID(""))
		gt.Bool(t, created.CreatedAt.IsZero()).False()
		gt.Value(t, created.Kind).Equal(types.RecordKindAudioWhisper)
	})

	t.Run("Get returns stored record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Record().Create(ctx, &model.ProcessingRecord{
			Kind:   types.RecordKindText,
			Input:  "I lost my credit card",
			Result: json.RawMessage(`{"case_type":"Credit Cards"}`),
		})
		gt.NoError(t, err).Required()

		got, err := repo.Record().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Input).Equal("I lost my credit card")
		gt.Value(t, string(got.Result)).Equal(`{"case_type":"Credit Cards"}`)
	})

	t.Run("Get unknown ID fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Record().Get(ctx, model.NewRecordID())
		gt.Error(t, err)
	})

	t.Run("List returns newest first with limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			_, err := repo.Record().Create(ctx, &model.ProcessingRecord{
				Kind:  types.RecordKindDocument,
				Input: fmt.Sprintf("scan-%d.png", i),
			})
			gt.NoError(t, err).Required()
			time.Sleep(5 * time.Millisecond) // distinct CreatedAt ordering
		}

		records, err := repo.Record().List(ctx, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(2)
		gt.Value(t, records[0].Input).Equal("scan-2.png")
		gt.Value(t, records[1].Input).Equal("scan-1.png")
	})
}

func TestMemoryRecordRepository(t *testing.T) {
	runRecordRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreRecordRepository(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("FIRESTORE_DATABASE_ID")

	runRecordRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, databaseID,
			firestore.WithCollectionPrefix(fmt.Sprintf("test-%d-", time.Now().UnixNano())))
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			_ = repo.Close()
		})
		return repo
	})
}
