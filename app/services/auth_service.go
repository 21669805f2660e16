package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"gorm.io/gorm"
)

// AuthService handles admin login and account upkeep.
type AuthService struct {
	admins *repositories.AdminRepository
	issuer *auth.Issuer
}

func NewAuthService(db *gorm.DB, issuer *auth.Issuer) *AuthService {
	return &AuthService{admins: repositories.NewAdminRepository(db), issuer: issuer}
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string       `json:"token"`
	Admin models.Admin `json:"admin"`
}

// Login checks credentials and issues a signed token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	admin, err := s.admins.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("find admin: %w", err)
	}
	if !auth.CheckPassword(admin.Password, password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(admin.ID, admin.Email)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	return LoginResult{Token: token, Admin: admin}, nil
}

// Profile returns the admin behind a token.
func (s *AuthService) Profile(ctx context.Context, adminID uint) (models.Admin, error) {
	admin, err := s.admins.FindByID(ctx, adminID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Admin{}, ErrAdminNotFound
	}
	if err != nil {
		return models.Admin{}, fmt.Errorf("find admin %d: %w", adminID, err)
	}
	return admin, nil
}

// ChangePassword replaces the password after re-checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, adminID uint, current, next string) error {
	admin, err := s.Profile(ctx, adminID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(admin.Password, current) {
		return ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// CreateAdmin registers a new admin account.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password, name string) (models.Admin, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.Admin{}, err
	}
	admin := models.Admin{Email: normalizeEmail(email), Password: hash, Name: name}
	err = s.admins.Create(ctx, &admin)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.Admin{}, fmt.Errorf("admin %s: %w", admin.Email, ErrDuplicate)
	}
	if err != nil {
		return models.Admin{}, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

// EnsureDefaultAdmin creates the bootstrap admin unless that email exists.
// It reports whether an account was created.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, email, password, name string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	_, err := s.admins.FindByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("find admin: %w", err)
	}

	if _, err := s.CreateAdmin(ctx, email, password, name); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	logger.WithCtx(ctx).Info("default admin created", "email", normalizeEmail(email))
	return true, nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
