package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/epiphanyresto/menu-backend/internal/hash"
	"github.com/epiphanyresto/menu-backend/internal/logging"
	"github.com/epiphanyresto/menu-backend/internal/repo"
)

// Default identity written on first contact with an empty credential store.
const (
	DefaultAdminUsername = "Epiphany"
	DefaultAdminPassword = "epiphany@123"
)

type AdminService struct {
	Repo *repo.GormRepo
}

type AdminCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// bootstrapDefault writes the default identity. Best-effort: a concurrent
// first-time caller may have won the race, which is fine for the read and
// verify paths.
func (s *AdminService) bootstrapDefault(ctx context.Context) {
	l := logging.FromContext(ctx).With("svc", "admin.bootstrap")

	passwordHash, err := hash.HashPassword(DefaultAdminPassword)
	if err != nil {
		l.Error("bootstrap_failed", "reason", "cannot hash default password", "error", err)
		return
	}
	if err := s.Repo.InsertAdminSetting(ctx, DefaultAdminUsername, passwordHash); err != nil {
		l.Warn("bootstrap_insert_failed", "error", err)
		return
	}
	l.Info("bootstrap_complete", "username", DefaultAdminUsername)
}

// GetAdminCredentials reports the configured username. The password field
// is always empty, even right after bootstrap.
func (s *AdminService) GetAdminCredentials(ctx context.Context) (*AdminCredentials, error) {
	setting, err := s.Repo.GetAdminSetting(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.bootstrapDefault(ctx)
			return &AdminCredentials{Username: DefaultAdminUsername, Password: ""}, nil
		}
		// Read failures degrade to the default identity rather than
		// locking the panel out (see DESIGN.md).
		logging.FromContext(ctx).Warn("admin_credentials_read_failed", "error", err)
		return &AdminCredentials{Username: DefaultAdminUsername, Password: ""}, nil
	}

	return &AdminCredentials{Username: setting.Username, Password: ""}, nil
}

// VerifyAdminCredentials checks a login attempt. With no stored row the
// attempt is compared against the defaults and, on a match, the default row
// is persisted best-effort. A storage read error also falls back to the
// default comparison; it never yields a free pass on its own.
func (s *AdminService) VerifyAdminCredentials(ctx context.Context, username, password string) bool {
	l := logging.FromContext(ctx).With("svc", "admin.verify", "username", username)

	setting, err := s.Repo.GetAdminSetting(ctx)
	if err != nil {
		matches := username == DefaultAdminUsername && password == DefaultAdminPassword
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if matches {
				s.bootstrapDefault(ctx)
			}
			return matches
		}
		l.Warn("verify_read_failed", "error", err)
		return matches
	}

	return setting.Username == username && hash.CheckPassword(setting.PasswordHash, password)
}

// UpdateAdminCredentials rotates the admin identity in place. Unlike the
// read paths, write failures propagate.
func (s *AdminService) UpdateAdminCredentials(ctx context.Context, username, password string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}

	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.Repo.UpsertAdminSetting(ctx, username, passwordHash); err != nil {
		return wrapStorage("update admin credentials", err)
	}

	logging.FromContext(ctx).Info("admin_credentials_rotated", "username", username)
	return nil
}
