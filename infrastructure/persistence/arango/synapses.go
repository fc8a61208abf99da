package arango

import (
	"context"

	driver "github.com/arangodb/go-driver"
	"go.uber.org/zap"

	"hivemind/domain/hive"
	"hivemind/pkg/errors"
)

// SynapseRepository stores synapses in per-hive edge collections.
type SynapseRepository struct {
	db     driver.Database
	logger *zap.Logger
}

// NewSynapseRepository creates a new repository.
func NewSynapseRepository(db driver.Database, logger *zap.Logger) *SynapseRepository {
	return &SynapseRepository{db: db, logger: logger}
}

// Create inserts a synapse and fills in its identity.
func (r *SynapseRepository) Create(ctx context.Context, collection string, s *hive.Synapse) (*hive.Synapse, error) {
	col, err := r.db.Collection(ctx, collection)
	if err != nil {
		return nil, errors.NewDatabaseError("open synapse collection", err)
	}

	meta, err := col.CreateDocument(ctx, s)
	if err != nil {
		return nil, errors.NewDatabaseError("create synapse", err)
	}
	s.Key = meta.Key
	s.ID = string(meta.ID)
	return s, nil
}

// Get retrieves a synapse by reference.
func (r *SynapseRepository) Get(ctx context.Context, ref hive.ItemRef) (*hive.Synapse, error) {
	col, err := r.db.Collection(ctx, ref.Collection)
	if err != nil {
		if driver.IsNotFound(err) {
			return nil, errors.NewNotFoundError("synapse")
		}
		return nil, errors.NewDatabaseError("open synapse collection", err)
	}

	var s hive.Synapse
	if _, err := col.ReadDocument(ctx, ref.Key, &s); err != nil {
		if driver.IsNotFound(err) {
			return nil, errors.NewNotFoundError("synapse")
		}
		return nil, errors.NewDatabaseError("read synapse", err)
	}
	s.Key = ref.Key
	s.ID = ref.ID()
	return &s, nil
}

// Replace overwrites a stored synapse.
func (r *SynapseRepository) Replace(ctx context.Context, ref hive.ItemRef, s *hive.Synapse) error {
	col, err := r.db.Collection(ctx, ref.Collection)
	if err != nil {
		return errors.NewDatabaseError("open synapse collection", err)
	}
	if _, err := col.ReplaceDocument(ctx, ref.Key, s); err != nil {
		if driver.IsNotFound(err) {
			return errors.NewNotFoundError("synapse")
		}
		return errors.NewDatabaseError("replace synapse", err)
	}
	return nil
}

// Remove deletes a stored synapse.
func (r *SynapseRepository) Remove(ctx context.Context, ref hive.ItemRef) error {
	col, err := r.db.Collection(ctx, ref.Collection)
	if err != nil {
		return errors.NewDatabaseError("open synapse collection", err)
	}
	if _, err := col.RemoveDocument(ctx, ref.Key); err != nil {
		if driver.IsNotFound(err) {
			return errors.NewNotFoundError("synapse")
		}
		return errors.NewDatabaseError("remove synapse", err)
	}
	return nil
}

// FindBetween returns the synapse for the exact directed pair, or nil.
func (r *SynapseRepository) FindBetween(ctx context.Context, collection, fromID, toID string) (*hive.Synapse, error) {
	query := `
		FOR s IN @@col
			FILTER s._from == @from AND s._to == @to
			LIMIT 1
			RETURN s`
	cursor, err := r.db.Query(ctx, query, map[string]interface{}{
		"@col": collection,
		"from": fromID,
		"to":   toID,
	})
	if err != nil {
		return nil, errors.NewDatabaseError("find synapse", err)
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return nil, nil
	}
	var s hive.Synapse
	meta, err := cursor.ReadDocument(ctx, &s)
	if err != nil {
		return nil, errors.NewDatabaseError("read synapse", err)
	}
	s.Key = meta.Key
	s.ID = string(meta.ID)
	return &s, nil
}

// Adjacent returns every synapse touching pointID in either direction.
func (r *SynapseRepository) Adjacent(ctx context.Context, collection, pointID string) ([]*hive.Synapse, error) {
	query := `
		FOR s IN @@col
			FILTER s._from == @point OR s._to == @point
			RETURN s`
	cursor, err := r.db.Query(ctx, query, map[string]interface{}{
		"@col":  collection,
		"point": pointID,
	})
	if err != nil {
		return nil, errors.NewDatabaseError("list adjacent synapses", err)
	}
	defer cursor.Close()

	var results []*hive.Synapse
	for cursor.HasMore() {
		var s hive.Synapse
		meta, err := cursor.ReadDocument(ctx, &s)
		if err != nil {
			return nil, errors.NewDatabaseError("read synapse", err)
		}
		s.Key = meta.Key
		s.ID = string(meta.ID)
		results = append(results, &s)
	}
	return results, nil
}
