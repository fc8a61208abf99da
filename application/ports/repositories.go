// Package ports declares the persistence interfaces the application layer
// depends on. The backing store is expected to be a graph-capable document
// store: document CRUD by collection and key, bounded graph traversal, and a
// ranked text-search facility over named views.
package ports

import (
	"context"
	"time"

	"hivemind/domain/hive"
	"hivemind/domain/user"
)

// PointRepository persists points inside a namespace's point collection.
type PointRepository interface {
	// Create inserts a point into collection and returns it with identity set.
	Create(ctx context.Context, collection string, p *hive.Point) (*hive.Point, error)

	// Get retrieves a point by its parsed reference.
	Get(ctx context.Context, ref hive.ItemRef) (*hive.Point, error)

	// Replace overwrites the stored point addressed by ref.
	Replace(ctx context.Context, ref hive.ItemRef, p *hive.Point) error

	// Remove deletes the point addressed by ref.
	Remove(ctx context.Context, ref hive.ItemRef) error

	// Search returns points whose labels match phrase, ranked by relevance
	// descending, using the namespace's search view.
	Search(ctx context.Context, viewName, phrase string) ([]*hive.Point, error)
}

// SynapseRepository persists synapses inside a namespace's synapse collection.
type SynapseRepository interface {
	// Create inserts a synapse and returns it with identity set.
	Create(ctx context.Context, collection string, s *hive.Synapse) (*hive.Synapse, error)

	// Get retrieves a synapse by its parsed reference.
	Get(ctx context.Context, ref hive.ItemRef) (*hive.Synapse, error)

	// Replace overwrites the stored synapse addressed by ref.
	Replace(ctx context.Context, ref hive.ItemRef, s *hive.Synapse) error

	// Remove deletes the synapse addressed by ref.
	Remove(ctx context.Context, ref hive.ItemRef) error

	// FindBetween returns the synapse connecting the exact ordered
	// (fromID, toID) pair, or nil when none exists.
	FindBetween(ctx context.Context, collection, fromID, toID string) (*hive.Synapse, error)

	// Adjacent returns every synapse touching pointID in either direction.
	Adjacent(ctx context.Context, collection, pointID string) ([]*hive.Synapse, error)
}

// YardSort selects the ordering of a yard page.
type YardSort string

const (
	SortActivity YardSort = "activity"
	SortPoints   YardSort = "points"
	SortCreated  YardSort = "created"
)

// YardOrder selects the sort direction.
type YardOrder string

const (
	OrderAsc  YardOrder = "asc"
	OrderDesc YardOrder = "desc"
)

// YardPage bounds one page of a manifest listing.
type YardPage struct {
	Page    int
	PerPage int
	Sort    YardSort
	Order   YardOrder
}

// Offset is the number of manifests preceding the page.
func (p YardPage) Offset() int { return (p.Page - 1) * p.PerPage }

// ManifestRepository persists hive manifests. The counter methods are an
// explicit atomic-increment contract: each is a single-document update keyed
// by hive (and, for the buckets, calendar date), so concurrent participation
// events do not lose updates the way a read-modify-write cycle would.
type ManifestRepository interface {
	// Create inserts a manifest and returns it with identity set.
	Create(ctx context.Context, m *hive.Manifest) (*hive.Manifest, error)

	// Get retrieves a manifest by hive id.
	Get(ctx context.Context, hiveID string) (*hive.Manifest, error)

	// Replace overwrites a stored manifest (used by lazy history compaction).
	Replace(ctx context.Context, m *hive.Manifest) error

	// BumpParticipation increments the participation bucket for date, updates
	// the last-participation time, and increments the cumulative total when
	// newParticipant is set.
	BumpParticipation(ctx context.Context, hiveID, date string, now time.Time, newParticipant bool) error

	// BumpPointCount increments the point-count bucket for date and the
	// cumulative point total.
	BumpPointCount(ctx context.Context, hiveID, date string) error

	// TouchLastParticipation refreshes the last-participation time without
	// moving any counter. Used for repeat participation on the same day.
	TouchLastParticipation(ctx context.Context, hiveID string, now time.Time) error

	// DecrementTotals reverses cumulative counters after a deletion.
	DecrementTotals(ctx context.Context, hiveID string, points, participation int) error

	// List returns one page of manifests in the requested order.
	List(ctx context.Context, page YardPage) ([]*hive.Manifest, error)

	// Count returns the total number of manifests.
	Count(ctx context.Context) (int, error)

	// SearchByTitle returns a page of manifests whose titles match phrase,
	// ranked by relevance descending, plus the total number of matches.
	SearchByTitle(ctx context.Context, phrase string, page YardPage) ([]*hive.Manifest, int, error)
}

// UserRepository persists accounts.
type UserRepository interface {
	// Create inserts a user and returns it with identity set.
	Create(ctx context.Context, u *user.User) (*user.User, error)

	// GetByID retrieves a user by full id.
	GetByID(ctx context.Context, userID string) (*user.User, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*user.User, error)

	// SetCurrentHive records the user's default hive.
	SetCurrentHive(ctx context.Context, userID, hiveID string) error

	// SetLastCreatedItem records (or, with an empty stamp, clears) the user's
	// undo stamp.
	SetLastCreatedItem(ctx context.Context, userID, stamp string) error
}

// ParticipationRepository persists the has-participated edges between users
// and hives. At most one edge exists per (user, hive) pair.
type ParticipationRepository interface {
	// Get returns the edge for (userID, hiveID), or nil when none exists.
	Get(ctx context.Context, userID, hiveID string) (*user.Participation, error)

	// Create inserts a new edge.
	Create(ctx context.Context, p *user.Participation) error

	// SetLastDay updates the edge's last-participation date.
	SetLastDay(ctx context.Context, key, day string) error
}

// SavedHiveRepository persists the saved-hive relation.
type SavedHiveRepository interface {
	// Add inserts a saved-hive link.
	Add(ctx context.Context, s *user.SavedHive) error

	// Remove deletes the link for (userID, hiveID); not-found when absent.
	Remove(ctx context.Context, userID, hiveID string) error

	// ListManifests returns the manifests of every hive the user has saved.
	ListManifests(ctx context.Context, userID string) ([]*hive.Manifest, error)
}

// Provisioner creates and tears down the per-namespace traversal graph and
// search view. Drop methods exist for compensation when hive creation fails
// after partial provisioning.
type Provisioner interface {
	CreateGraph(ctx context.Context, graphName, pointCollection, synapseCollection string) error
	DropGraph(ctx context.Context, graphName string) error
	CreateSearchView(ctx context.Context, viewName, collection, field string) error
	DropView(ctx context.Context, viewName string) error
}

// TraversalPair is one (vertex, incident edge) row of a traversal result.
// The edge is nil for the origin row.
type TraversalPair struct {
	Point   *hive.Point
	Synapse *hive.Synapse
}

// Traverser walks a namespace's graph breadth-first in either edge direction,
// up to depth hops, with path-unique vertex visitation.
type Traverser interface {
	Subgraph(ctx context.Context, graphName, originID string, depth int) ([]TraversalPair, error)
}
