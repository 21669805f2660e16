package seeders

import (
	"context"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"gorm.io/gorm"
)

// AdminConfig holds the bootstrap admin credentials.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// Admin creates the bootstrap admin if that email has no account yet.
func Admin(cfg AdminConfig) func(ctx context.Context, db *gorm.DB) error {
	return func(ctx context.Context, db *gorm.DB) error {
		// The issuer is never used to sign here.
		svc := services.NewAuthService(db, auth.NewIssuer("", 0))
		_, err := svc.EnsureDefaultAdmin(ctx, cfg.Email, cfg.Password, cfg.Name)
		return err
	}
}
