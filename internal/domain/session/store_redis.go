package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "portal:session:"

// RedisPersister stores each session as one JSON value whose key expires with the session.
type RedisPersister struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisPersister(client *redis.Client) *RedisPersister {
	return &RedisPersister{client: client, now: time.Now}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (p *RedisPersister) Save(ctx context.Context, record Record) error {
	ttl := record.ExpiresAt.Sub(p.now())
	if ttl <= 0 {
		return p.Delete(ctx, record.ID)
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, redisKey(record.ID), payload, ttl).Err()
}

func (p *RedisPersister) Load(ctx context.Context, id string) (Record, error) {
	payload, err := p.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	var record Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return Record{}, err
	}
	if record.Expired(p.now()) {
		return Record{}, ErrNotFound
	}
	return record, nil
}

func (p *RedisPersister) Delete(ctx context.Context, id string) error {
	return p.client.Del(ctx, redisKey(id)).Err()
}
