// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package session

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// DefaultRedisKey is the key used when none is configured.
const DefaultRedisKey = "glucotrack:username"

// RedisPersister keeps the identity under a single Redis key with no TTL.
type RedisPersister struct {
	client redis.UniversalClient
	key    string
}

// NewRedisPersister returns a persister using client and key.
func NewRedisPersister(client redis.UniversalClient, key string) (*RedisPersister, error) {
	if client == nil {
		return nil, oops.Code(CodeNoPersister).Errorf("redis client is required")
	}
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisPersister{client: client, key: key}, nil
}

// Load implements Persister.
func (p *RedisPersister) Load(ctx context.Context) (string, bool, error) {
	identity, err := p.client.Get(ctx, p.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, oops.With("key", p.key).Wrap(err)
	}
	return identity, identity != "", nil
}

// Save implements Persister.
func (p *RedisPersister) Save(ctx context.Context, identity string) error {
	if err := p.client.Set(ctx, p.key, identity, 0).Err(); err != nil {
		return oops.With("key", p.key).Wrap(err)
	}
	return nil
}

// Delete implements Persister.
func (p *RedisPersister) Delete(ctx context.Context) error {
	if err := p.client.Del(ctx, p.key).Err(); err != nil {
		return oops.With("key", p.key).Wrap(err)
	}
	return nil
}
