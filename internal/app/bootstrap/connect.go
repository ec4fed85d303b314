// internal/app/bootstrap/connect.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	invitationstore "github.com/dalemusser/menucasa/internal/app/store/invitations"
	"github.com/dalemusser/menucasa/internal/app/system/workers"
)

// How often the invitation cleanup worker sweeps, and how long a
// redeemed invitation is retained before deletion.
const (
	invitationSweepInterval = 1 * time.Hour
	invitationRetain        = 24 * time.Hour
)

// ConnectDB establishes the MongoDB connection and builds DBDeps.
//
// WAFFLE calls this after config validation and before EnsureSchema.
// The returned deps are passed by value to the remaining hooks, so
// anything later hooks need to share (like the cleanup worker) must
// be created here.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool", appCfg.MongoMaxPoolSize))

	cleanup := workers.NewInvitationCleanup(
		invitationstore.New(db), logger, invitationSweepInterval, invitationRetain)

	return DBDeps{
		MongoClient:       client,
		MongoDatabase:     db,
		InvitationCleanup: cleanup,
	}, nil
}
