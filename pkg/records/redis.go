package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each document as a JSON string under <collection>:<id> and
// tracks ids in the <collection>:ids set. Queries scan the collection.
type RedisStore struct {
	client     *redis.Client
	collection string
}

func NewRedisStore(client *redis.Client, collection string) *RedisStore {
	return &RedisStore{client: client, collection: collection}
}

func (s *RedisStore) docKey(id string) string {
	return fmt.Sprintf("%s:%s", s.collection, id)
}

func (s *RedisStore) idsKey() string {
	return s.collection + ":ids"
}

func (s *RedisStore) Add(ctx context.Context, doc Document) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	id := uuid.New().String()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.docKey(id), body, 0)
		pipe.SAdd(ctx, s.idsKey(), id)
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *RedisStore) Query(ctx context.Context, field string, value interface{}) ([]StoredDocument, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	var matches []StoredDocument
	for _, doc := range all {
		if current, ok := doc.Data[field]; ok && sameValue(current, value) {
			matches = append(matches, doc)
		}
	}
	return matches, nil
}

func (s *RedisStore) All(ctx context.Context) ([]StoredDocument, error) {
	ids, err := s.client.SMembers(ctx, s.idsKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(id)
	}
	bodies, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]StoredDocument, 0, len(ids))
	for i, raw := range bodies {
		body, ok := raw.(string)
		if !ok {
			// id left behind by a partial delete
			continue
		}
		var doc Document
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, fmt.Errorf("decoding document %s: %w", ids[i], err)
		}
		out = append(out, StoredDocument{ID: ids[i], Data: doc})
	}
	return out, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.docKey(id))
		pipe.SRem(ctx, s.idsKey(), id)
		return nil
	})
	return err
}
