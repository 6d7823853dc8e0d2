// Package redistest provides an in-memory stand-in for the go-redis commands
// used by pkg/redis.
package redistest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ExpireCall records one EXPIRE invocation.
type ExpireCall struct {
	Key string
	TTL time.Duration
}

// Cmdable is a map-backed implementation of the pkg/redis command surface.
type Cmdable struct {
	mu          sync.Mutex
	Data        map[string]string
	TTLs        map[string]time.Duration
	Counters    map[string]int64
	ExpireCalls []ExpireCall

	// FailWith, when set, makes every command return this error.
	FailWith error
}

func NewCmdable() *Cmdable {
	return &Cmdable{
		Data:     make(map[string]string),
		TTLs:     make(map[string]time.Duration),
		Counters: make(map[string]int64),
	}
}

var ErrUnavailable = errors.New("redistest: unavailable")

func (m *Cmdable) Ping(context.Context) *redis.StatusCmd {
	if m.FailWith != nil {
		return redis.NewStatusResult("", m.FailWith)
	}
	return redis.NewStatusResult("PONG", nil)
}

func (m *Cmdable) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return redis.NewStatusResult("", m.FailWith)
	}
	m.Data[key] = stringify(value)
	m.TTLs[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (m *Cmdable) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return redis.NewStringResult("", m.FailWith)
	}
	v, ok := m.Data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *Cmdable) SetNX(_ context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return redis.NewBoolResult(false, m.FailWith)
	}
	if _, exists := m.Data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.Data[key] = stringify(value)
	m.TTLs[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (m *Cmdable) Incr(_ context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return redis.NewIntResult(0, m.FailWith)
	}
	m.Counters[key]++
	return redis.NewIntResult(m.Counters[key], nil)
}

func (m *Cmdable) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExpireCalls = append(m.ExpireCalls, ExpireCall{Key: key, TTL: ttl})
	return redis.NewBoolResult(true, nil)
}

func (m *Cmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return redis.NewIntResult(0, m.FailWith)
	}
	var removed int64
	for _, key := range keys {
		if _, ok := m.Data[key]; ok {
			removed++
		}
		delete(m.Data, key)
		delete(m.TTLs, key)
	}
	return redis.NewIntResult(removed, nil)
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
