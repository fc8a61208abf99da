// Package memory implements every persistence port on in-process maps. It
// backs the development STORE_DRIVER=memory mode and the application-layer
// tests; behavior mirrors the arango package, including not-found
// classification and the atomic counter contract (a single mutex serializes
// all counter updates).
package memory

import (
	"sync"

	"github.com/google/uuid"

	"hivemind/domain/hive"
	"hivemind/domain/user"
)

// Fixed collection names, mirroring the arango package.
const (
	usersCollection  = "users"
	gardenCollection = "garden"
)

type graphDef struct {
	pointCollection   string
	synapseCollection string
}

type viewDef struct {
	collection string
	field      string
}

type savedEdge struct {
	from      string
	to        string
	ownership user.Ownership
}

// Store is the shared state behind all in-memory repositories.
type Store struct {
	mu sync.RWMutex

	points        map[string]map[string]*hive.Point   // collection → key → point
	synapses      map[string]map[string]*hive.Synapse // collection → key → synapse
	manifests     map[string]*hive.Manifest           // key → manifest
	users         map[string]*user.User               // key → user
	participation map[string]*user.Participation      // key → edge
	saved         map[string]*savedEdge               // key → edge
	graphs        map[string]graphDef
	views         map[string]viewDef
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		points:        make(map[string]map[string]*hive.Point),
		synapses:      make(map[string]map[string]*hive.Synapse),
		manifests:     make(map[string]*hive.Manifest),
		users:         make(map[string]*user.User),
		participation: make(map[string]*user.Participation),
		saved:         make(map[string]*savedEdge),
		graphs:        make(map[string]graphDef),
		views:         make(map[string]viewDef),
	}
}

// Accessors for the port implementations, all sharing this store.

func (s *Store) Points() *PointRepository { return &PointRepository{store: s} }

func (s *Store) Synapses() *SynapseRepository { return &SynapseRepository{store: s} }

func (s *Store) Manifests() *ManifestRepository { return &ManifestRepository{store: s} }

func (s *Store) Users() *UserRepository { return &UserRepository{store: s} }

func (s *Store) Participation() *ParticipationRepository {
	return &ParticipationRepository{store: s}
}

func (s *Store) SavedHives() *SavedHiveRepository { return &SavedHiveRepository{store: s} }

func (s *Store) Provisioner() *Provisioner { return &Provisioner{store: s} }

func (s *Store) Traverser() *Traverser { return &Traverser{store: s} }

func newKey() string { return uuid.New().String() }

// Clone helpers keep callers from aliasing stored state.

func clonePoint(p *hive.Point) *hive.Point {
	cp := *p
	cp.Links = append([]string(nil), p.Links...)
	cp.Responses = append(hive.ResponseList{}, p.Responses...)
	return &cp
}

func cloneSynapse(s *hive.Synapse) *hive.Synapse {
	cs := *s
	cs.Responses = append(hive.ResponseList{}, s.Responses...)
	return &cs
}

func cloneManifest(m *hive.Manifest) *hive.Manifest {
	cm := *m
	cm.DailyParticipation = append([]hive.DayBucket{}, m.DailyParticipation...)
	cm.DailyPointCount = append([]hive.DayBucket{}, m.DailyPointCount...)
	return &cm
}

func cloneUser(u *user.User) *user.User {
	cu := *u
	return &cu
}
