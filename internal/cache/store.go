package cache

import (
	"context"
	"errors"

	"goldvault/internal/storage"
)

// Store serves repeated reads of a storage.Store from an LRU cache. Writes go
// through to the backing store and refresh the cached value. Values written
// by other processes are only seen once their key is invalidated or expires.
type Store struct {
	backing storage.Store
	cache   *LRUCache[[]byte]
}

var _ storage.Store = (*Store)(nil)

func NewStore(backing storage.Store, cache *LRUCache[[]byte]) *Store {
	return &Store{backing: backing, cache: cache}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := s.cache.Get(key); ok {
		return clone(v), nil
	}
	v, err := s.backing.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.cache.Delete(key)
		}
		return nil, err
	}
	s.cache.Set(key, clone(v))
	return v, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.backing.Set(ctx, key, value); err != nil {
		s.cache.Delete(key)
		return err
	}
	s.cache.Set(key, clone(value))
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	s.cache.Delete(key)
	return s.backing.Remove(ctx, key)
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	return s.backing.Keys(ctx)
}

// Invalidate forgets key so the next Get reads the backing store.
func (s *Store) Invalidate(key string) {
	s.cache.Delete(key)
}

func (s *Store) CleanExpired() int {
	return s.cache.CleanExpired()
}

func (s *Store) Close() error {
	s.cache.Purge()
	return s.backing.Close()
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
