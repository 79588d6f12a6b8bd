package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulseboard/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type settingRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSettingRepository(client *firestore.Client) *settingRepository {
	return &settingRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *settingRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_settings"
	}
	return "settings"
}

func (r *settingRepository) Get(ctx context.Context, key string) (string, bool, error) {
	doc, err := r.client.Collection(r.collection()).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", false, nil
		}
		return "", false, goerr.Wrap(err, "failed to get setting", goerr.V("key", key))
	}

	var entry model.SettingEntry
	if err := doc.DataTo(&entry); err != nil {
		return "", false, goerr.Wrap(err, "failed to decode setting", goerr.V("key", key))
	}

	return entry.Value, true, nil
}

func (r *settingRepository) Put(ctx context.Context, key, value string) error {
	entry := &model.SettingEntry{Key: key, Value: value}
	if _, err := r.client.Collection(r.collection()).Doc(key).Set(ctx, entry); err != nil {
		return goerr.Wrap(err, "failed to put setting", goerr.V("key", key))
	}
	return nil
}

func (r *settingRepository) List(ctx context.Context) (map[string]string, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	result := make(map[string]string)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate settings")
		}

		var entry model.SettingEntry
		if err := doc.DataTo(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to decode setting")
		}
		result[entry.Key] = entry.Value
	}

	return result, nil
}
