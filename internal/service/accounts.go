// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/inkblog/internal/auth"
	"github.com/olegiv/inkblog/internal/model"
	"github.com/olegiv/inkblog/internal/store"
	"github.com/olegiv/inkblog/internal/util"
)

// AccountService registers users and checks their credentials.
type AccountService struct {
	db      *sql.DB
	queries *store.Queries
	hasher  auth.Hasher
	events  *EventService
	logger  *slog.Logger
}

// NewAccountService creates an AccountService using the default hasher.
func NewAccountService(db *sql.DB, events *EventService, logger *slog.Logger) *AccountService {
	return &AccountService{
		db:      db,
		queries: store.New(db),
		hasher:  auth.DefaultHasher,
		events:  events,
		logger:  logger,
	}
}

// WithHasher replaces the password hasher. Tests use it to lower the
// iteration count.
func (s *AccountService) WithHasher(h auth.Hasher) *AccountService {
	s.hasher = h
	return s
}

// Register creates a new account. The first account registered on a
// fresh database becomes the owner.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return model.User{}, err
	}

	_, err := s.queries.GetUserByEmail(ctx, in.Email)
	if err == nil {
		return model.User{}, model.ErrDuplicateEmail
	}
	if !store.IsNotFound(err) {
		return model.User{}, fmt.Errorf("checking email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user := model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         model.RoleReader,
		CreatedAt:    time.Now().UTC(),
	}

	err = store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		id, err := q.CreateUser(ctx, store.CreateUserParams{
			Name:      user.Name,
			Email:     user.Email,
			Password:  user.PasswordHash,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
		})
		if err != nil {
			return err
		}
		user.ID = id

		if id == model.OwnerID {
			if err := q.UpdateUserRole(ctx, store.UpdateUserRoleParams{Role: model.RoleOwner, ID: id}); err != nil {
				return fmt.Errorf("assigning owner role: %w", err)
			}
			user.Role = model.RoleOwner
		}
		return nil
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return model.User{}, model.ErrDuplicateEmail
		}
		return model.User{}, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	_ = s.events.LogInfo(ctx, model.EventCategoryAuth, "User registered", map[string]any{
		"user_id": user.ID,
		"role":    user.Role,
	})

	return user, nil
}

// Login checks an email and password. It returns model.ErrInvalidCredentials
// both for an unknown email and for a wrong password.
func (s *AccountService) Login(ctx context.Context, email, password string) (model.User, error) {
	email = util.NormalizeEmail(email)

	row, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if store.IsNotFound(err) {
			s.recordFailedLogin(ctx, email)
			return model.User{}, model.ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("looking up user: %w", err)
	}

	valid, err := s.hasher.Verify(password, row.Password)
	if err != nil {
		s.logger.Warn("stored password hash is unreadable", "user_id", row.ID, "error", err)
	}
	if !valid {
		s.recordFailedLogin(ctx, email)
		return model.User{}, model.ErrInvalidCredentials
	}

	if s.hasher.NeedsRehash(row.Password) {
		s.upgradeHash(ctx, row.ID, password)
	}

	return userFromRow(row), nil
}

// GetUser returns the account with the given id.
func (s *AccountService) GetUser(ctx context.Context, id int64) (model.User, error) {
	row, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("getting user: %w", err)
	}
	return userFromRow(row), nil
}

func (s *AccountService) upgradeHash(ctx context.Context, userID int64, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("rehashing password", "user_id", userID, "error", err)
		return
	}
	if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{Password: hash, ID: userID}); err != nil {
		s.logger.Error("storing rehashed password", "user_id", userID, "error", err)
		return
	}
	s.logger.Info("password hash upgraded", "user_id", userID)
}

func (s *AccountService) recordFailedLogin(ctx context.Context, email string) {
	s.logger.Info("failed login attempt", "email", email)
	_ = s.events.LogWarning(ctx, model.EventCategoryAuth, "Failed login attempt", map[string]any{
		"email": email,
	})
}

func userFromRow(row store.User) model.User {
	return model.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.Password,
		Role:         row.Role,
		CreatedAt:    row.CreatedAt,
	}
}
