package arango

import (
	"context"

	driver "github.com/arangodb/go-driver"
	"go.uber.org/zap"

	"hivemind/domain/user"
	"hivemind/pkg/errors"
)

// ParticipationRepository stores the has-participated edges.
type ParticipationRepository struct {
	db     driver.Database
	logger *zap.Logger
}

// NewParticipationRepository creates a new repository.
func NewParticipationRepository(db driver.Database, logger *zap.Logger) *ParticipationRepository {
	return &ParticipationRepository{db: db, logger: logger}
}

// Get returns the edge for (userID, hiveID), or nil when none exists.
func (r *ParticipationRepository) Get(ctx context.Context, userID, hiveID string) (*user.Participation, error) {
	query := `
		FOR p IN @@col
			FILTER p._from == @user AND p._to == @hive
			LIMIT 1
			RETURN p`
	cursor, err := r.db.Query(ctx, query, map[string]interface{}{
		"@col": ParticipationCollection,
		"user": userID,
		"hive": hiveID,
	})
	if err != nil {
		return nil, errors.NewDatabaseError("find participation edge", err)
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return nil, nil
	}
	var p user.Participation
	meta, err := cursor.ReadDocument(ctx, &p)
	if err != nil {
		return nil, errors.NewDatabaseError("read participation edge", err)
	}
	p.Key = meta.Key
	p.ID = string(meta.ID)
	return &p, nil
}

// Create inserts a new edge.
func (r *ParticipationRepository) Create(ctx context.Context, p *user.Participation) error {
	col, err := r.db.Collection(ctx, ParticipationCollection)
	if err != nil {
		return errors.NewDatabaseError("open participation collection", err)
	}
	meta, err := col.CreateDocument(ctx, p)
	if err != nil {
		return errors.NewDatabaseError("create participation edge", err)
	}
	p.Key = meta.Key
	p.ID = string(meta.ID)
	return nil
}

// SetLastDay advances the edge's last-participation date.
func (r *ParticipationRepository) SetLastDay(ctx context.Context, key, day string) error {
	col, err := r.db.Collection(ctx, ParticipationCollection)
	if err != nil {
		return errors.NewDatabaseError("open participation collection", err)
	}
	if _, err := col.UpdateDocument(ctx, key, map[string]interface{}{"LastDay": day}); err != nil {
		if driver.IsNotFound(err) {
			return errors.NewNotFoundError("participation edge")
		}
		return errors.NewDatabaseError("advance participation day", err)
	}
	return nil
}
