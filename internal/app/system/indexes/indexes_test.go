package indexes_test

import (
	"testing"

	"github.com/dalemusser/menucasa/internal/app/system/indexes"
	"github.com/dalemusser/menucasa/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// EnsureAll should succeed on a clean database
	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}

	// Second call should also succeed (idempotent)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesWeeklyMenuIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	cur, err := db.Collection("weekly_menus").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	indexNames := make(map[string]bool)
	uniqueNames := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		name, _ := idx["name"].(string)
		indexNames[name] = true
		if u, ok := idx["unique"].(bool); ok && u {
			uniqueNames[name] = true
		}
	}

	for _, want := range []string{"uniq_weeklymenus_user_fecha", "idx_weeklymenus_casa_fecha"} {
		if !indexNames[want] {
			t.Errorf("missing index %q (have %v)", want, indexNames)
		}
	}
	if !uniqueNames["uniq_weeklymenus_user_fecha"] {
		t.Error("uniq_weeklymenus_user_fecha is not unique")
	}
}

func TestEnsureAll_CreatesUniqueUserEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	cur, err := db.Collection("users").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	found := false
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, _ := idx["name"].(string); name == "uniq_users_email" {
			found = true
			if u, ok := idx["unique"].(bool); !ok || !u {
				t.Error("uniq_users_email is not unique")
			}
		}
	}
	if !found {
		t.Error("uniq_users_email not created")
	}
}
