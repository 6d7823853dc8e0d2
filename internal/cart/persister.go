package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/redis"
)

// Persister loads and saves the full ordered item list for a cart token.
type Persister interface {
	Load(ctx context.Context, token string) ([]Item, error)
	Save(ctx context.Context, token string, items []Item) error
}

type kv interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(token string) string
}

// RedisPersister stores each cart as one JSON document under its cart key.
type RedisPersister struct {
	store kv
	ttl   time.Duration
}

func NewRedisPersister(client *redisclient.Client, ttl time.Duration) *RedisPersister {
	return newRedisPersister(client, ttl)
}

func newRedisPersister(store kv, ttl time.Duration) *RedisPersister {
	return &RedisPersister{store: store, ttl: ttl}
}

// Load returns an empty list when the key is missing. A corrupt document is
// treated as an empty cart.
func (p *RedisPersister) Load(ctx context.Context, token string) ([]Item, error) {
	raw, err := p.store.Get(ctx, p.store.CartKey(token))
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return []Item{}, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []Item{}, nil
	}
	return items, nil
}

// Save rewrites the whole collection and refreshes its TTL. An empty cart
// deletes the key.
func (p *RedisPersister) Save(ctx context.Context, token string, items []Item) error {
	key := p.store.CartKey(token)
	if len(items) == 0 {
		if err := p.store.Del(ctx, key); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := p.store.Set(ctx, key, payload, p.ttl); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
