package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// CreateUser stores u after checking that neither its email nor its username
// is in use. ID and CreatedAt are assigned here; Password must already be hashed.
func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	err := s.mutate(ctx, func() error {
		if s.userExistsLocked(u.Email, u.Username) {
			return ErrUserExists
		}
		s.fillUser(&u)
		s.data.Users = append(s.data.Users, u)
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// UserExists reports whether email or username is taken, compared the same
// way CreateUser compares them.
func (s *Store) UserExists(email, username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userExistsLocked(email, username)
}

func (s *Store) userExistsLocked(email, username string) bool {
	for i := range s.data.Users {
		if s.data.Users[i].Email == email || s.data.Users[i].Username == username {
			return true
		}
	}
	return false
}

// FindOrCreateUserByEmail returns the user registered with u.Email, creating
// it when absent. A clashing username gets a numeric suffix. The boolean
// reports whether a user was created.
func (s *Store) FindOrCreateUserByEmail(ctx context.Context, u models.User) (models.User, bool, error) {
	s.mu.RLock()
	if existing := s.userByEmailLocked(u.Email); existing != nil {
		found := *existing
		s.mu.RUnlock()
		return found, false, nil
	}
	s.mu.RUnlock()

	created := false
	err := s.mutate(ctx, func() error {
		// Re-check under the write lock; another request may have created it.
		if existing := s.userByEmailLocked(u.Email); existing != nil {
			u = *existing
			return nil
		}
		u.Username = s.uniqueUsernameLocked(u.Username)
		s.fillUser(&u)
		s.data.Users = append(s.data.Users, u)
		created = true
		return nil
	})
	if err != nil {
		return models.User{}, false, err
	}
	return u, created, nil
}

func (s *Store) fillUser(u *models.User) {
	u.ID = s.newID()
	u.CreatedAt = s.now()
	if u.Avatar == "" {
		u.Avatar = models.DefaultAvatar
	}
}

func (s *Store) uniqueUsernameLocked(base string) string {
	if base == "" {
		base = "user"
	}
	taken := func(name string) bool {
		for i := range s.data.Users {
			if s.data.Users[i].Username == name {
				return true
			}
		}
		return false
	}
	if !taken(base) {
		return base
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s%d", base, n)
		if !taken(candidate) {
			return candidate
		}
	}
}

// GetUserByID returns the user with the given id.
func (s *Store) GetUserByID(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u := s.userByIDLocked(id); u != nil {
		return *u, nil
	}
	return models.User{}, ErrNotFound
}

// GetUserByEmail returns the user with exactly this email.
func (s *Store) GetUserByEmail(email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u := s.userByEmailLocked(email); u != nil {
		return *u, nil
	}
	return models.User{}, ErrNotFound
}

// GetUserByUsername matches usernames case-insensitively.
func (s *Store) GetUserByUsername(username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.data.Users {
		if strings.EqualFold(s.data.Users[i].Username, username) {
			return s.data.Users[i], nil
		}
	}
	return models.User{}, ErrNotFound
}

// UpdateUser applies the non-empty fields of req. A new username must not
// belong to any other user.
func (s *Store) UpdateUser(ctx context.Context, id string, req models.UpdateUserRequest) (models.User, error) {
	var updated models.User
	err := s.mutate(ctx, func() error {
		u := s.userByIDLocked(id)
		if u == nil {
			return ErrNotFound
		}
		if req.Username != "" && req.Username != u.Username {
			for i := range s.data.Users {
				if s.data.Users[i].Username == req.Username {
					return ErrUsernameTaken
				}
			}
		}

		if req.FullName != "" {
			u.FullName = req.FullName
		}
		if req.Username != "" {
			u.Username = req.Username
		}
		if req.Bio != "" {
			u.Bio = req.Bio
		}
		updated = *u
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return updated, nil
}

// UserCount returns the number of registered users.
func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.Users)
}

func (s *Store) userByIDLocked(id string) *models.User {
	for i := range s.data.Users {
		if s.data.Users[i].ID == id {
			return &s.data.Users[i]
		}
	}
	return nil
}

func (s *Store) userByEmailLocked(email string) *models.User {
	for i := range s.data.Users {
		if s.data.Users[i].Email == email {
			return &s.data.Users[i]
		}
	}
	return nil
}
