package memory

import (
	"context"

	"github.com/MikeMC777/foodorders/internal/user"
)

func copyUser(u *user.User) *user.User {
	cp := *u
	cp.Addresses = append([]user.Address(nil), u.Addresses...)
	return &cp
}

func (s *Store) CreateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[u.Email]; ok {
		return user.ErrAlreadyExist
	}
	s.users[u.ID] = copyUser(u)
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return copyUser(u), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return copyUser(s.users[id]), nil
}

func (s *Store) UpdateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return user.ErrNotFound
	}
	s.users[u.ID] = copyUser(u)
	return nil
}
