// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/menucasa/internal/app/system/workers"
)

// DBDeps holds database/back-end dependencies for the app.
// Extend this struct as your app evolves.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Background worker purging redeemed invitations; started in
	// Startup and stopped in Shutdown.
	InvitationCleanup *workers.InvitationCleanup
}
