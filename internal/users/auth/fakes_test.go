// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package auth_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/velora-shop/velora/internal/platform/apperr"
	"github.com/velora-shop/velora/internal/users/auth"
)

// memoryUserRepository is an in-memory [auth.UserRepository] for tests.
//
// It mirrors the storage contract: case-insensitive email uniqueness,
// apperr taxonomy errors, and entity copies on reads so mutations only
// become visible through repository writes (like a real database).
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newMemoryUserRepository(seed ...*auth.User) *memoryUserRepository {
	repo := &memoryUserRepository{users: make(map[string]*auth.User)}
	for _, user := range seed {
		clone := *user
		repo.users[user.ID] = &clone
	}
	return repo
}

func cloneUser(user *auth.User) *auth.User {
	clone := *user
	if user.BanUntil != nil {
		until := *user.BanUntil
		clone.BanUntil = &until
	}
	if user.BannedBy != nil {
		by := *user.BannedBy
		clone.BannedBy = &by
	}
	clone.Permissions = append([]auth.Permission(nil), user.Permissions...)
	return &clone
}

func (repo *memoryUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return cloneUser(user), nil
}

func (repo *memoryUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		if strings.EqualFold(user.Email, email) {
			return cloneUser(user), nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) List(_ context.Context) ([]*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	users := make([]*auth.User, 0, len(repo.users))
	for _, user := range repo.users {
		users = append(users, cloneUser(user))
	}
	return users, nil
}

func (repo *memoryUserRepository) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return apperr.Conflict("Email already exists")
		}
	}
	repo.users[user.ID] = cloneUser(user)
	return nil
}

func (repo *memoryUserRepository) UpdateProfile(_ context.Context, id, name, email string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	for _, existing := range repo.users {
		if existing.ID != id && strings.EqualFold(existing.Email, email) {
			return apperr.Conflict("Email already exists")
		}
	}
	user.Name = name
	user.Email = email
	user.UpdatedAt = time.Now()
	return nil
}

func (repo *memoryUserRepository) UpdateLastLogin(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	user.LastLogin = time.Now()
	return nil
}

func (repo *memoryUserRepository) SetAdminFlag(_ context.Context, id string, isAdmin bool) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	user.IsAdmin = isAdmin
	if !isAdmin {
		user.Permissions = nil
	}
	return nil
}

func (repo *memoryUserRepository) SetPermissions(_ context.Context, id string, permissions []auth.Permission) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	user.Permissions = append([]auth.Permission(nil), permissions...)
	return nil
}

func (repo *memoryUserRepository) ApplyBan(_ context.Context, id string, until *time.Time, reason, bannedBy string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	user.IsBanned = true
	user.BanUntil = until
	user.BanReason = reason
	user.BannedBy = &bannedBy
	return nil
}

func (repo *memoryUserRepository) ClearBan(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	user.IsBanned = false
	user.BanUntil = nil
	user.BanReason = ""
	user.BannedBy = nil
	return nil
}

// get returns the stored entity for direct state assertions.
func (repo *memoryUserRepository) get(id string) *auth.User {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.users[id]
	if !ok {
		return nil
	}
	return cloneUser(user)
}
