package arango

import (
	"context"

	driver "github.com/arangodb/go-driver"
	"go.uber.org/zap"

	"hivemind/domain/hive"
	"hivemind/domain/user"
	"hivemind/pkg/errors"
)

// SavedHiveRepository stores the saved-hive edges.
type SavedHiveRepository struct {
	db     driver.Database
	logger *zap.Logger
}

// NewSavedHiveRepository creates a new repository.
func NewSavedHiveRepository(db driver.Database, logger *zap.Logger) *SavedHiveRepository {
	return &SavedHiveRepository{db: db, logger: logger}
}

// Add inserts a saved-hive link. Saving an already-saved hive is a no-op.
func (r *SavedHiveRepository) Add(ctx context.Context, s *user.SavedHive) error {
	query := `
		UPSERT {_from: @from, _to: @to}
			INSERT {_from: @from, _to: @to, Ownership: @ownership}
			UPDATE {}
		IN @@col`
	cursor, err := r.db.Query(ctx, query, map[string]interface{}{
		"@col":      SavedHivesCollection,
		"from":      s.From,
		"to":        s.To,
		"ownership": s.Ownership,
	})
	if err != nil {
		return errors.NewDatabaseError("save hive", err)
	}
	return cursor.Close()
}

// Remove deletes the link for (userID, hiveID); not-found when absent.
func (r *SavedHiveRepository) Remove(ctx context.Context, userID, hiveID string) error {
	query := `
		FOR s IN @@col
			FILTER s._from == @user AND s._to == @hive
			REMOVE s IN @@col
			RETURN OLD`
	cursor, err := r.db.Query(ctx, query, map[string]interface{}{
		"@col": SavedHivesCollection,
		"user": userID,
		"hive": hiveID,
	})
	if err != nil {
		return errors.NewDatabaseError("forget hive", err)
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return errors.NewNotFoundError("saved hive")
	}
	return nil
}

// ListManifests returns the manifests of every hive the user has saved.
func (r *SavedHiveRepository) ListManifests(ctx context.Context, userID string) ([]*hive.Manifest, error) {
	query := `
		FOR s IN @@col
			FILTER s._from == @user
			LET m = DOCUMENT(s._to)
			FILTER m != null
			RETURN m`
	cursor, err := r.db.Query(ctx, query, map[string]interface{}{
		"@col": SavedHivesCollection,
		"user": userID,
	})
	if err != nil {
		return nil, errors.NewDatabaseError("list saved hives", err)
	}
	defer cursor.Close()

	var results []*hive.Manifest
	for cursor.HasMore() {
		var m hive.Manifest
		meta, err := cursor.ReadDocument(ctx, &m)
		if err != nil {
			return nil, errors.NewDatabaseError("read manifest", err)
		}
		m.Key = meta.Key
		m.ID = string(meta.ID)
		results = append(results, &m)
	}
	return results, nil
}
