package sessionstore

import (
	"context"
	"sync"

	"github.com/trezcool/kelasi/core/user"
)

// inMemStore holds the session user in memory only; used in dev and tests
// when no redis is around.
type inMemStore struct {
	mutex sync.RWMutex
	usr   *user.User
}

var _ user.SessionStore = (*inMemStore)(nil)

func NewInMemStore() user.SessionStore {
	return &inMemStore{}
}

func (s *inMemStore) Save(_ context.Context, usr user.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.usr = &usr
	return nil
}

func (s *inMemStore) Current(_ context.Context) (user.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.usr == nil {
		return user.User{}, user.ErrNoSession
	}
	return *s.usr, nil
}

func (s *inMemStore) Clear(_ context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.usr = nil
	return nil
}
