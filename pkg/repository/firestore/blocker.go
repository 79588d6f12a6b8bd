package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulseboard/pkg/domain/interfaces"
	"github.com/secmon-lab/pulseboard/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type blockerRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newBlockerRepository(client *firestore.Client) *blockerRepository {
	return &blockerRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *blockerRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_blockers"
	}
	return "blockers"
}

func (r *blockerRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *blockerRepository) Create(ctx context.Context, blocker *model.Blocker) (*model.Blocker, error) {
	id, err := nextID(ctx, r.client, r.counterCollection(), "blocker_counter")
	if err != nil {
		return nil, err
	}

	created := &model.Blocker{
		ID:          id,
		TaskID:      blocker.TaskID,
		Description: blocker.Description,
		Reporter:    blocker.Reporter,
		Resolved:    false,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := r.client.Collection(r.collection()).Doc(docID(created.ID)).Set(ctx, created); err != nil {
		return nil, goerr.Wrap(err, "failed to create blocker", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *blockerRepository) Get(ctx context.Context, id int64) (*model.Blocker, error) {
	doc, err := r.client.Collection(r.collection()).Doc(docID(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "blocker not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get blocker", goerr.V("id", id))
	}

	var blocker model.Blocker
	if err := doc.DataTo(&blocker); err != nil {
		return nil, goerr.Wrap(err, "failed to decode blocker", goerr.V("id", id))
	}

	return &blocker, nil
}

func (r *blockerRepository) ListActive(ctx context.Context) ([]*model.Blocker, error) {
	iter := r.client.Collection(r.collection()).
		Where("resolved", "==", false).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.Blocker
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate blockers")
		}

		var blocker model.Blocker
		if err := doc.DataTo(&blocker); err != nil {
			return nil, goerr.Wrap(err, "failed to decode blocker")
		}
		result = append(result, &blocker)
	}

	return result, nil
}

func (r *blockerRepository) Resolve(ctx context.Context, id int64) (*model.Blocker, error) {
	ref := r.client.Collection(r.collection()).Doc(docID(id))

	if _, err := ref.Update(ctx, []firestore.Update{
		{Path: "resolved", Value: true},
	}); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "blocker not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to resolve blocker", goerr.V("id", id))
	}

	return r.Get(ctx, id)
}
