package file

import (
	"context"
	"time"

	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/store"
)

// GetUserByUsername looks an account up by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.locks[colUsers].RLock()
	defer s.locks[colUsers].RUnlock()

	var users []models.User
	if err := s.read(colUsers, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			u := users[i]
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

// UpdateLastLogin stamps the account's last sign-in time.
func (s *Store) UpdateLastLogin(ctx context.Context, username string, ts time.Time) error {
	s.locks[colUsers].Lock()
	defer s.locks[colUsers].Unlock()

	var users []models.User
	if err := s.read(colUsers, &users); err != nil {
		return err
	}
	for i := range users {
		if users[i].Username == username {
			users[i].LastLogin = &ts
			return s.write(colUsers, users)
		}
	}
	return store.ErrNotFound
}
