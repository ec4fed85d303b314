package bootstrap

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dalemusser/menucasa/internal/domain/models"
	"github.com/dalemusser/menucasa/internal/testutil"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureSuperAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	cfg := AppConfig{
		SuperAdminUsername: "root",
		SuperAdminPassword: "correct horse battery staple",
	}

	if err := ensureSuperAdmin(ctx, cfg, deps, testLogger()); err != nil {
		t.Fatalf("ensureSuperAdmin failed: %v", err)
	}

	var admin models.Admin
	err := db.Collection("admins").FindOne(ctx, bson.M{"username": "root"}).Decode(&admin)
	if err != nil {
		t.Fatalf("failed to find created admin: %v", err)
	}

	if admin.Role != models.AdminRoleSuperAdmin {
		t.Errorf("expected role %q, got %q", models.AdminRoleSuperAdmin, admin.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(cfg.SuperAdminPassword)); err != nil {
		t.Errorf("stored hash does not match configured password: %v", err)
	}
}

func TestEnsureSuperAdmin_LeavesExistingUntouched(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	existing := fx.CreateAdmin(ctx, "root", "original-password", models.AdminRoleSuperAdmin)

	deps := DBDeps{MongoDatabase: db}
	cfg := AppConfig{
		SuperAdminUsername: "root",
		SuperAdminPassword: "a brand new password",
	}

	if err := ensureSuperAdmin(ctx, cfg, deps, testLogger()); err != nil {
		t.Fatalf("ensureSuperAdmin failed: %v", err)
	}

	var admin models.Admin
	err := db.Collection("admins").FindOne(ctx, bson.M{"username": "root"}).Decode(&admin)
	if err != nil {
		t.Fatalf("failed to find admin: %v", err)
	}

	if admin.ID != existing.ID {
		t.Error("expected existing admin to be kept, found a different document")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("original-password")); err != nil {
		t.Error("existing admin password was rewritten")
	}

	count, err := db.Collection("admins").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count admins: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 admin, got %d", count)
	}
}

func TestEnsureSuperAdmin_SkipsWhenUnconfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}

	if err := ensureSuperAdmin(ctx, AppConfig{}, deps, testLogger()); err != nil {
		t.Fatalf("ensureSuperAdmin failed: %v", err)
	}

	count, err := db.Collection("admins").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count admins: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no admins, got %d", count)
	}
}

func TestValidateConfig(t *testing.T) {
	base := AppConfig{
		MongoURI:        "mongodb://localhost:27017",
		AdminJWTSecret:  "test-secret",
		PublicRateLimit: 100,
	}

	t.Run("valid", func(t *testing.T) {
		if err := ValidateConfig(nil, base, testLogger()); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})

	t.Run("missing admin secret", func(t *testing.T) {
		cfg := base
		cfg.AdminJWTSecret = ""
		if err := ValidateConfig(nil, cfg, testLogger()); err == nil {
			t.Error("expected error for missing admin_jwt_secret")
		}
	})

	t.Run("superadmin without password", func(t *testing.T) {
		cfg := base
		cfg.SuperAdminUsername = "root"
		if err := ValidateConfig(nil, cfg, testLogger()); err == nil {
			t.Error("expected error for superadmin without password")
		}
	})

	t.Run("bad rate limit", func(t *testing.T) {
		cfg := base
		cfg.PublicRateLimit = 0
		if err := ValidateConfig(nil, cfg, testLogger()); err == nil {
			t.Error("expected error for zero public_rate_limit")
		}
	})
}
