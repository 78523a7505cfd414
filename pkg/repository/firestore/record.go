package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ccops-lab/caseflow/pkg/domain/model"
	"github.com/ccops-lab/caseflow/pkg/domain/types"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = goerr.New("not found")

// recordDoc is the Firestore document representation of
// model.ProcessingRecord. Result is stored as a string because Firestore
// rejects raw byte slices containing arbitrary JSON more gracefully as
// text.
type recordDoc struct {
	ID        model.RecordID `firestore:"ID"`
	Kind      string         `firestore:"Kind"`
	Input     string         `firestore:"Input"`
	SizeBytes int64          `firestore:"SizeBytes"`
	Result    string         `firestore:"Result"`
	CreatedAt time.Time      `firestore:"CreatedAt"`
}

func toRecordDoc(r *model.ProcessingRecord) *recordDoc {
	return &recordDoc{
		ID:        r.ID,
		Kind:      r.Kind.String(),
		Input:     r.Input,
		SizeBytes: r.SizeBytes,
		Result:    string(r.Result),
		CreatedAt: r.CreatedAt,
	}
}

func fromRecordDoc(d *recordDoc) *model.ProcessingRecord {
	r := &model.ProcessingRecord{
		ID:        d.ID,
		Kind:      types.RecordKind(d.Kind),
		Input:     d.Input,
		SizeBytes: d.SizeBytes,
		CreatedAt: d.CreatedAt,
	}
	if d.Result != "" {
		r.Result = []byte(d.Result)
	}
	return r
}

type recordRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRecordRepository(client *firestore.Client) *recordRepository {
	return &recordRepository{
		client: client,
	}
}

func (r *recordRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + "records")
}

func (r *recordRepository) Create(ctx context.Context, record *model.ProcessingRecord) (*model.ProcessingRecord, error) {
	created := *record
	if created.ID == "" {
		created.ID = model.NewRecordID()
	}
	created.CreatedAt = time.Now().UTC()

	doc := toRecordDoc(&created)
	if _, err := r.collection().Doc(string(created.ID)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create record", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *recordRepository) Get(ctx context.Context, id model.RecordID) (*model.ProcessingRecord, error) {
	snap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "record not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get record", goerr.V("id", id))
	}

	var doc recordDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode record", goerr.V("id", id))
	}
	return fromRecordDoc(&doc), nil
}

func (r *recordRepository) List(ctx context.Context, limit int) ([]*model.ProcessingRecord, error) {
	query := r.collection().OrderBy("CreatedAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.ProcessingRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate records")
		}

		var doc recordDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode record")
		}
		result = append(result, fromRecordDoc(&doc))
	}
	return result, nil
}
