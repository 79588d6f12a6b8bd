package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulseboard/pkg/domain/model"
	"google.golang.org/api/iterator"
)

type activityRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newActivityRepository(client *firestore.Client) *activityRepository {
	return &activityRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *activityRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_activity"
	}
	return "activity"
}

func (r *activityRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *activityRepository) Append(ctx context.Context, record *model.ActivityRecord) (*model.ActivityRecord, error) {
	id, err := nextID(ctx, r.client, r.counterCollection(), "activity_counter")
	if err != nil {
		return nil, err
	}

	user := record.User
	if user == "" {
		user = model.SystemUser
	}

	created := &model.ActivityRecord{
		ID:        id,
		User:      user,
		Action:    record.Action,
		Details:   record.Details,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := r.client.Collection(r.collection()).Doc(docID(created.ID)).Set(ctx, created); err != nil {
		return nil, goerr.Wrap(err, "failed to append activity record", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *activityRepository) ListRecent(ctx context.Context, limit int) ([]*model.ActivityRecord, error) {
	query := r.client.Collection(r.collection()).
		OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.ActivityRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate activity records")
		}

		var record model.ActivityRecord
		if err := doc.DataTo(&record); err != nil {
			return nil, goerr.Wrap(err, "failed to decode activity record")
		}
		result = append(result, &record)
	}

	return result, nil
}
