package arango

import (
	"context"

	driver "github.com/arangodb/go-driver"
	"go.uber.org/zap"

	"hivemind/domain/hive"
	"hivemind/pkg/errors"
)

// PointRepository stores points in per-hive vertex collections.
type PointRepository struct {
	db     driver.Database
	logger *zap.Logger
}

// NewPointRepository creates a new repository.
func NewPointRepository(db driver.Database, logger *zap.Logger) *PointRepository {
	return &PointRepository{db: db, logger: logger}
}

// Create inserts a point and fills in its identity.
func (r *PointRepository) Create(ctx context.Context, collection string, p *hive.Point) (*hive.Point, error) {
	col, err := r.db.Collection(ctx, collection)
	if err != nil {
		return nil, errors.NewDatabaseError("open point collection", err)
	}

	meta, err := col.CreateDocument(ctx, p)
	if err != nil {
		return nil, errors.NewDatabaseError("create point", err)
	}
	p.Key = meta.Key
	p.ID = string(meta.ID)
	return p, nil
}

// Get retrieves a point by reference.
func (r *PointRepository) Get(ctx context.Context, ref hive.ItemRef) (*hive.Point, error) {
	col, err := r.db.Collection(ctx, ref.Collection)
	if err != nil {
		if driver.IsNotFound(err) {
			return nil, errors.NewNotFoundError("point")
		}
		return nil, errors.NewDatabaseError("open point collection", err)
	}

	var p hive.Point
	if _, err := col.ReadDocument(ctx, ref.Key, &p); err != nil {
		if driver.IsNotFound(err) {
			return nil, errors.NewNotFoundError("point")
		}
		return nil, errors.NewDatabaseError("read point", err)
	}
	p.Key = ref.Key
	p.ID = ref.ID()
	return &p, nil
}

// Replace overwrites a stored point.
func (r *PointRepository) Replace(ctx context.Context, ref hive.ItemRef, p *hive.Point) error {
	col, err := r.db.Collection(ctx, ref.Collection)
	if err != nil {
		return errors.NewDatabaseError("open point collection", err)
	}
	if _, err := col.ReplaceDocument(ctx, ref.Key, p); err != nil {
		if driver.IsNotFound(err) {
			return errors.NewNotFoundError("point")
		}
		return errors.NewDatabaseError("replace point", err)
	}
	return nil
}

// Remove deletes a stored point.
func (r *PointRepository) Remove(ctx context.Context, ref hive.ItemRef) error {
	col, err := r.db.Collection(ctx, ref.Collection)
	if err != nil {
		return errors.NewDatabaseError("open point collection", err)
	}
	if _, err := col.RemoveDocument(ctx, ref.Key); err != nil {
		if driver.IsNotFound(err) {
			return errors.NewNotFoundError("point")
		}
		return errors.NewDatabaseError("remove point", err)
	}
	return nil
}

// Search returns points whose labels match the phrase, best matches first.
func (r *PointRepository) Search(ctx context.Context, viewName, phrase string) ([]*hive.Point, error) {
	query := `
		FOR p IN @@view
			SEARCH ANALYZER(p.Label IN TOKENS(@phrase, "text_en"), "text_en")
			SORT BM25(p) DESC
			LIMIT 50
			RETURN p`
	cursor, err := r.db.Query(ctx, query, map[string]interface{}{
		"@view":  viewName,
		"phrase": phrase,
	})
	if err != nil {
		return nil, errors.NewDatabaseError("search points", err)
	}
	defer cursor.Close()

	var results []*hive.Point
	for cursor.HasMore() {
		var p hive.Point
		meta, err := cursor.ReadDocument(ctx, &p)
		if err != nil {
			return nil, errors.NewDatabaseError("read search result", err)
		}
		p.Key = meta.Key
		p.ID = string(meta.ID)
		results = append(results, &p)
	}
	return results, nil
}
