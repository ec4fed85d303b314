// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	adminstore "github.com/dalemusser/menucasa/internal/app/store/admins"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// MenuCasa ensures the configured superadmin account and starts the
// invitation cleanup worker here.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := ensureSuperAdmin(ctx, appCfg, deps, logger); err != nil {
		return err
	}

	deps.InvitationCleanup.Start()
	return nil
}

// ensureSuperAdmin creates the superadmin account named in config if
// it does not exist yet. An existing account is never touched, so a
// password change in config does not silently rewrite credentials.
func ensureSuperAdmin(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SuperAdminUsername == "" {
		logger.Info("no superadmin configured; skipping bootstrap admin")
		return nil
	}

	admins := adminstore.New(deps.MongoDatabase)

	if _, err := admins.GetByUsername(ctx, appCfg.SuperAdminUsername); err == nil {
		logger.Info("superadmin already exists",
			zap.String("username", appCfg.SuperAdminUsername))
		return nil
	} else if !errors.Is(err, adminstore.ErrNotFound) {
		return fmt.Errorf("superadmin lookup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(appCfg.SuperAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("superadmin password hash: %w", err)
	}

	created, err := admins.Create(ctx, models.Admin{
		Username:     appCfg.SuperAdminUsername,
		PasswordHash: string(hash),
		Role:         models.AdminRoleSuperAdmin,
	})
	if err != nil {
		// Another instance may have raced us; that is fine.
		if errors.Is(err, adminstore.ErrDuplicateUsername) {
			logger.Info("superadmin created by another instance",
				zap.String("username", appCfg.SuperAdminUsername))
			return nil
		}
		return fmt.Errorf("superadmin create: %w", err)
	}

	logger.Info("superadmin created",
		zap.String("username", created.Username),
		zap.String("id", created.ID.Hex()))
	return nil
}
