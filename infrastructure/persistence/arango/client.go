// Package arango implements the persistence ports on ArangoDB. Each hive
// lives in its own pair of vertex/edge collections plus a named graph and an
// ArangoSearch view; the cross-hive records (users, manifests, relations)
// live in fixed collections created at startup.
package arango

import (
	"context"

	driver "github.com/arangodb/go-driver"
	"github.com/arangodb/go-driver/http"
	"go.uber.org/zap"

	"hivemind/infrastructure/config"
)

// Fixed collection and view names.
const (
	UsersCollection         = "users"
	GardenCollection        = "garden"
	ParticipationCollection = "participation"
	SavedHivesCollection    = "saved_hives"
	YardView                = "vw-yard"
)

// Connect opens the configured database, creating it if needed.
func Connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) (driver.Database, error) {
	conn, err := http.NewConnection(http.ConnectionConfig{
		Endpoints: []string{cfg.ArangoEndpoint},
	})
	if err != nil {
		return nil, err
	}

	client, err := driver.NewClient(driver.ClientConfig{
		Connection:     conn,
		Authentication: driver.BasicAuthentication(cfg.ArangoUser, cfg.ArangoPassword),
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.DatabaseExists(ctx, cfg.ArangoDatabase)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.Info("Creating database", zap.String("database", cfg.ArangoDatabase))
		return client.CreateDatabase(ctx, cfg.ArangoDatabase, nil)
	}
	return client.Database(ctx, cfg.ArangoDatabase)
}

// EnsureSchema creates the fixed collections and the yard search view.
// Per-hive collections are provisioned per hive, not here.
func EnsureSchema(ctx context.Context, db driver.Database) error {
	for _, name := range []string{UsersCollection, GardenCollection} {
		if err := ensureCollection(ctx, db, name, nil); err != nil {
			return err
		}
	}
	edgeOpts := &driver.CreateCollectionOptions{Type: driver.CollectionTypeEdge}
	for _, name := range []string{ParticipationCollection, SavedHivesCollection} {
		if err := ensureCollection(ctx, db, name, edgeOpts); err != nil {
			return err
		}
	}

	viewExists, err := db.ViewExists(ctx, YardView)
	if err != nil {
		return err
	}
	if !viewExists {
		_, err = db.CreateArangoSearchView(ctx, YardView, &driver.ArangoSearchViewProperties{
			Links: driver.ArangoSearchLinks{
				GardenCollection: driver.ArangoSearchElementProperties{
					Fields: driver.ArangoSearchFields{
						"Title": driver.ArangoSearchElementProperties{
							Analyzers: []string{"text_en"},
						},
					},
				},
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureCollection(ctx context.Context, db driver.Database, name string, opts *driver.CreateCollectionOptions) error {
	exists, err := db.CollectionExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		_, err = db.CreateCollection(ctx, name, opts)
	}
	return err
}
