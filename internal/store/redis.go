package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bulkmail/bulkmail/internal/database"
	"github.com/bulkmail/bulkmail/internal/model"
)

// RedisStore keeps each record under its own key
type RedisStore struct {
	rdb    *database.Redis
	prefix string
	codec  codec
}

// NewRedisStore creates a RedisStore; keys are prefix+record name
func NewRedisStore(rdb *database.Redis, prefix string, sealer *Sealer) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, codec: codec{sealer: sealer}}
}

// LoadIdentity reads the identity record
func (s *RedisStore) LoadIdentity(ctx context.Context) (model.Identity, error) {
	data, err := s.get(ctx, identityRecord)
	if err != nil || data == nil {
		return model.Identity{}, err
	}
	return s.codec.decodeIdentity(data)
}

// SaveIdentity replaces the identity record
func (s *RedisStore) SaveIdentity(ctx context.Context, id model.Identity) error {
	data, err := s.codec.encodeIdentity(id)
	if err != nil {
		return err
	}
	return s.set(ctx, identityRecord, data)
}

// LoadDraft reads the draft record
func (s *RedisStore) LoadDraft(ctx context.Context) (model.Draft, error) {
	data, err := s.get(ctx, draftRecord)
	if err != nil || data == nil {
		return model.Draft{}, err
	}
	return decodeDraft(data)
}

// SaveDraft replaces the draft record
func (s *RedisStore) SaveDraft(ctx context.Context, d model.Draft) error {
	data, err := encodeDraft(d)
	if err != nil {
		return err
	}
	return s.set(ctx, draftRecord, data)
}

func (s *RedisStore) get(ctx context.Context, record string) ([]byte, error) {
	data, err := s.rdb.GetBytes(ctx, s.prefix+record)
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s record: %w", record, err)
	}
	return data, nil
}

func (s *RedisStore) set(ctx context.Context, record string, data []byte) error {
	if err := s.rdb.SetBytes(ctx, s.prefix+record, data); err != nil {
		return fmt.Errorf("failed to set %s record: %w", record, err)
	}
	return nil
}
