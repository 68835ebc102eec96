package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"consultly/models"
	"consultly/utils"

	"github.com/go-redis/redis/v8"
)

// CredentialStore persists the auth state under a single durable key.
// A missing record means unauthenticated.
type CredentialStore interface {
	Save(ctx context.Context, state models.AuthState) error
	Load(ctx context.Context) (*models.AuthState, error)
	Clear(ctx context.Context) error
}

// RedisCredentialStore keeps the auth state in the dedicated auth Redis DB.
type RedisCredentialStore struct {
	Client *redis.Client
}

func NewRedisCredentialStore(client *redis.Client) *RedisCredentialStore {
	return &RedisCredentialStore{Client: client}
}

func (s *RedisCredentialStore) Save(ctx context.Context, state models.AuthState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal auth state: %w", err)
	}
	if err := s.Client.Set(ctx, utils.AuthStateKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save auth state: %w", err)
	}
	return nil
}

func (s *RedisCredentialStore) Load(ctx context.Context) (*models.AuthState, error) {
	data, err := s.Client.Get(ctx, utils.AuthStateKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state models.AuthState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth state: %w", err)
	}
	return &state, nil
}

func (s *RedisCredentialStore) Clear(ctx context.Context) error {
	return s.Client.Del(ctx, utils.AuthStateKey).Err()
}

// MemoryCredentialStore is an in-process store used by tests.
type MemoryCredentialStore struct {
	mu    sync.Mutex
	state *models.AuthState
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

func (s *MemoryCredentialStore) Save(ctx context.Context, state models.AuthState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := state
	s.state = &copied
	return nil
}

func (s *MemoryCredentialStore) Load(ctx context.Context) (*models.AuthState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil, nil
	}
	copied := *s.state
	return &copied, nil
}

func (s *MemoryCredentialStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = nil
	return nil
}
