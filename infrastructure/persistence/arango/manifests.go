package arango

import (
	"context"
	"fmt"
	"time"

	driver "github.com/arangodb/go-driver"
	"go.uber.org/zap"

	"hivemind/application/ports"
	"hivemind/domain/hive"
	"hivemind/pkg/errors"
)

// ManifestRepository stores hive manifests in the garden collection. The
// counter bumps are single-document AQL updates, so concurrent participation
// events in the same hive serialize inside the database instead of racing
// through a read-modify-write cycle in the application.
type ManifestRepository struct {
	db     driver.Database
	logger *zap.Logger
}

// NewManifestRepository creates a new repository.
func NewManifestRepository(db driver.Database, logger *zap.Logger) *ManifestRepository {
	return &ManifestRepository{db: db, logger: logger}
}

// Create inserts a manifest and fills in its identity.
func (r *ManifestRepository) Create(ctx context.Context, m *hive.Manifest) (*hive.Manifest, error) {
	col, err := r.db.Collection(ctx, GardenCollection)
	if err != nil {
		return nil, errors.NewDatabaseError("open garden collection", err)
	}
	meta, err := col.CreateDocument(ctx, m)
	if err != nil {
		return nil, errors.NewDatabaseError("create manifest", err)
	}
	m.Key = meta.Key
	m.ID = string(meta.ID)
	return m, nil
}

// Get retrieves a manifest by hive id.
func (r *ManifestRepository) Get(ctx context.Context, hiveID string) (*hive.Manifest, error) {
	key, err := gardenKey(hiveID)
	if err != nil {
		return nil, err
	}
	col, err := r.db.Collection(ctx, GardenCollection)
	if err != nil {
		return nil, errors.NewDatabaseError("open garden collection", err)
	}

	var m hive.Manifest
	if _, err := col.ReadDocument(ctx, key, &m); err != nil {
		if driver.IsNotFound(err) {
			return nil, errors.NewNotFoundError("hive")
		}
		return nil, errors.NewDatabaseError("read manifest", err)
	}
	m.Key = key
	m.ID = GardenCollection + "/" + key
	return &m, nil
}

// Replace overwrites a stored manifest.
func (r *ManifestRepository) Replace(ctx context.Context, m *hive.Manifest) error {
	col, err := r.db.Collection(ctx, GardenCollection)
	if err != nil {
		return errors.NewDatabaseError("open garden collection", err)
	}
	if _, err := col.ReplaceDocument(ctx, m.Key, m); err != nil {
		if driver.IsNotFound(err) {
			return errors.NewNotFoundError("hive")
		}
		return errors.NewDatabaseError("replace manifest", err)
	}
	return nil
}

// BumpParticipation atomically bumps the day bucket, refreshes the
// last-participation time, and moves the cumulative total for a first-ever
// participant.
func (r *ManifestRepository) BumpParticipation(ctx context.Context, hiveID, date string, now time.Time, newParticipant bool) error {
	key, err := gardenKey(hiveID)
	if err != nil {
		return err
	}
	total := 0
	if newParticipant {
		total = 1
	}
	query := `
		LET m = DOCUMENT(@@col, @key)
		UPDATE m WITH {
			TotalParticipation: m.TotalParticipation + @total,
			TimeOfLastParticipation: @now,
			DailyParticipation: LENGTH(m.DailyParticipation[* FILTER CURRENT.Date == @date]) > 0
				? m.DailyParticipation[* RETURN CURRENT.Date == @date
					? MERGE(CURRENT, {Count: CURRENT.Count + 1})
					: CURRENT]
				: APPEND(m.DailyParticipation, [{Date: @date, Count: 1}])
		} IN @@col`
	return r.update(ctx, "bump participation", query, map[string]interface{}{
		"@col":  GardenCollection,
		"key":   key,
		"date":  date,
		"now":   now.UTC(),
		"total": total,
	})
}

// BumpPointCount atomically bumps the day bucket and the point total.
func (r *ManifestRepository) BumpPointCount(ctx context.Context, hiveID, date string) error {
	key, err := gardenKey(hiveID)
	if err != nil {
		return err
	}
	query := `
		LET m = DOCUMENT(@@col, @key)
		UPDATE m WITH {
			TotalPoints: m.TotalPoints + 1,
			DailyPointCount: LENGTH(m.DailyPointCount[* FILTER CURRENT.Date == @date]) > 0
				? m.DailyPointCount[* RETURN CURRENT.Date == @date
					? MERGE(CURRENT, {Count: CURRENT.Count + 1})
					: CURRENT]
				: APPEND(m.DailyPointCount, [{Date: @date, Count: 1}])
		} IN @@col`
	return r.update(ctx, "bump point count", query, map[string]interface{}{
		"@col": GardenCollection,
		"key":  key,
		"date": date,
	})
}

// TouchLastParticipation refreshes the last-participation time only.
func (r *ManifestRepository) TouchLastParticipation(ctx context.Context, hiveID string, now time.Time) error {
	key, err := gardenKey(hiveID)
	if err != nil {
		return err
	}
	query := `UPDATE @key WITH {TimeOfLastParticipation: @now} IN @@col`
	return r.update(ctx, "touch participation", query, map[string]interface{}{
		"@col": GardenCollection,
		"key":  key,
		"now":  now.UTC(),
	})
}

// DecrementTotals reverses cumulative counters after a deletion, floored at
// zero.
func (r *ManifestRepository) DecrementTotals(ctx context.Context, hiveID string, points, participation int) error {
	key, err := gardenKey(hiveID)
	if err != nil {
		return err
	}
	query := `
		LET m = DOCUMENT(@@col, @key)
		UPDATE m WITH {
			TotalPoints: MAX([0, m.TotalPoints - @points]),
			TotalParticipation: MAX([0, m.TotalParticipation - @participation])
		} IN @@col`
	return r.update(ctx, "decrement totals", query, map[string]interface{}{
		"@col":          GardenCollection,
		"key":           key,
		"points":        points,
		"participation": participation,
	})
}

// List returns one page of manifests in the requested order.
func (r *ManifestRepository) List(ctx context.Context, page ports.YardPage) ([]*hive.Manifest, error) {
	query := fmt.Sprintf(`
		FOR m IN @@col
			SORT m.%s %s
			LIMIT @offset, @count
			RETURN m`, sortField(page.Sort), sortDirection(page.Order))
	cursor, err := r.db.Query(ctx, query, map[string]interface{}{
		"@col":   GardenCollection,
		"offset": page.Offset(),
		"count":  page.PerPage,
	})
	if err != nil {
		return nil, errors.NewDatabaseError("list manifests", err)
	}
	defer cursor.Close()
	return r.readManifests(ctx, cursor)
}

// Count returns the total number of manifests.
func (r *ManifestRepository) Count(ctx context.Context) (int, error) {
	cursor, err := r.db.Query(ctx, `RETURN LENGTH(@@col)`, map[string]interface{}{
		"@col": GardenCollection,
	})
	if err != nil {
		return 0, errors.NewDatabaseError("count manifests", err)
	}
	defer cursor.Close()

	var count int
	if _, err := cursor.ReadDocument(ctx, &count); err != nil {
		return 0, errors.NewDatabaseError("read manifest count", err)
	}
	return count, nil
}

// SearchByTitle returns a ranked page of title matches plus the total match
// count.
func (r *ManifestRepository) SearchByTitle(ctx context.Context, phrase string, page ports.YardPage) ([]*hive.Manifest, int, error) {
	countQuery := `
		RETURN LENGTH(
			FOR m IN @@view
				SEARCH ANALYZER(m.Title IN TOKENS(@phrase, "text_en"), "text_en")
				RETURN 1)`
	cursor, err := r.db.Query(ctx, countQuery, map[string]interface{}{
		"@view":  YardView,
		"phrase": phrase,
	})
	if err != nil {
		return nil, 0, errors.NewDatabaseError("count title matches", err)
	}
	var total int
	_, err = cursor.ReadDocument(ctx, &total)
	cursor.Close()
	if err != nil {
		return nil, 0, errors.NewDatabaseError("read match count", err)
	}

	query := `
		FOR m IN @@view
			SEARCH ANALYZER(m.Title IN TOKENS(@phrase, "text_en"), "text_en")
			SORT BM25(m) DESC
			LIMIT @offset, @count
			RETURN m`
	cursor, err = r.db.Query(ctx, query, map[string]interface{}{
		"@view":  YardView,
		"phrase": phrase,
		"offset": page.Offset(),
		"count":  page.PerPage,
	})
	if err != nil {
		return nil, 0, errors.NewDatabaseError("search manifests", err)
	}
	defer cursor.Close()

	manifests, err := r.readManifests(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return manifests, total, nil
}

func (r *ManifestRepository) readManifests(ctx context.Context, cursor driver.Cursor) ([]*hive.Manifest, error) {
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

func (r *ManifestRepository) update(ctx context.Context, op, query string, bindVars map[string]interface{}) error {
	cursor, err := r.db.Query(ctx, query, bindVars)
	if err != nil {
		if driver.IsNotFound(err) {
			return errors.NewNotFoundError("hive")
		}
		return errors.NewDatabaseError(op, err)
	}
	return cursor.Close()
}

func sortField(sort ports.YardSort) string {
	switch sort {
	case ports.SortPoints:
		return "TotalPoints"
	case ports.SortCreated:
		return "DateCreated"
	default:
		return "TimeOfLastParticipation"
	}
}

func sortDirection(order ports.YardOrder) string {
	if order == ports.OrderAsc {
		return "ASC"
	}
	return "DESC"
}

// gardenKey strips the collection part from a hive id, accepting bare keys
// too.
func gardenKey(hiveID string) (string, error) {
	if hiveID == "" {
		return "", errors.NewValidationError("hive id is required")
	}
	const prefix = GardenCollection + "/"
	if len(hiveID) > len(prefix) && hiveID[:len(prefix)] == prefix {
		return hiveID[len(prefix):], nil
	}
	return hiveID, nil
}
