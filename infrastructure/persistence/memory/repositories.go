package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"hivemind/application/ports"
	"hivemind/domain/hive"
	"hivemind/domain/user"
	"hivemind/pkg/errors"
)

// PointRepository implements ports.PointRepository.
type PointRepository struct {
	store *Store
}

// Create inserts a point and fills in its identity.
func (r *PointRepository) Create(ctx context.Context, collection string, p *hive.Point) (*hive.Point, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	col, ok := r.store.points[collection]
	if !ok {
		return nil, errors.NewDatabaseError("open point collection", errUnknownCollection(collection))
	}
	cp := clonePoint(p)
	cp.Key = newKey()
	cp.ID = collection + "/" + cp.Key
	col[cp.Key] = cp
	return clonePoint(cp), nil
}

// Get retrieves a point by reference.
func (r *PointRepository) Get(ctx context.Context, ref hive.ItemRef) (*hive.Point, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.points[ref.Collection][ref.Key]
	if !ok {
		return nil, errors.NewNotFoundError("point")
	}
	return clonePoint(p), nil
}

// Replace overwrites a stored point.
func (r *PointRepository) Replace(ctx context.Context, ref hive.ItemRef, p *hive.Point) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.points[ref.Collection][ref.Key]; !ok {
		return errors.NewNotFoundError("point")
	}
	cp := clonePoint(p)
	cp.Key = ref.Key
	cp.ID = ref.ID()
	r.store.points[ref.Collection][ref.Key] = cp
	return nil
}

// Remove deletes a stored point.
func (r *PointRepository) Remove(ctx context.Context, ref hive.ItemRef) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.points[ref.Collection][ref.Key]; !ok {
		return errors.NewNotFoundError("point")
	}
	delete(r.store.points[ref.Collection], ref.Key)
	return nil
}

// Search matches labels by analyzed tokens: a point matches when its label
// contains any token of the phrase, more shared tokens ranking higher.
func (r *PointRepository) Search(ctx context.Context, viewName, phrase string) ([]*hive.Point, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	view, ok := r.store.views[viewName]
	if !ok {
		return nil, errors.NewDatabaseError("search points", errUnknownView(viewName))
	}

	type match struct {
		point *hive.Point
		score int
	}
	tokens := tokenize(phrase)
	var matches []match
	for _, p := range r.store.points[view.collection] {
		score := tokenScore(p.Label, tokens)
		if score > 0 {
			matches = append(matches, match{point: clonePoint(p), score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	results := make([]*hive.Point, 0, len(matches))
	for _, m := range matches {
		results = append(results, m.point)
	}
	return results, nil
}

// SynapseRepository implements ports.SynapseRepository.
type SynapseRepository struct {
	store *Store
}

// Create inserts a synapse and fills in its identity.
func (r *SynapseRepository) Create(ctx context.Context, collection string, s *hive.Synapse) (*hive.Synapse, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	col, ok := r.store.synapses[collection]
	if !ok {
		return nil, errors.NewDatabaseError("open synapse collection", errUnknownCollection(collection))
	}
	cs := cloneSynapse(s)
	cs.Key = newKey()
	cs.ID = collection + "/" + cs.Key
	col[cs.Key] = cs
	return cloneSynapse(cs), nil
}

// Get retrieves a synapse by reference.
func (r *SynapseRepository) Get(ctx context.Context, ref hive.ItemRef) (*hive.Synapse, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.synapses[ref.Collection][ref.Key]
	if !ok {
		return nil, errors.NewNotFoundError("synapse")
	}
	return cloneSynapse(s), nil
}

// Replace overwrites a stored synapse.
func (r *SynapseRepository) Replace(ctx context.Context, ref hive.ItemRef, s *hive.Synapse) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.synapses[ref.Collection][ref.Key]; !ok {
		return errors.NewNotFoundError("synapse")
	}
	cs := cloneSynapse(s)
	cs.Key = ref.Key
	cs.ID = ref.ID()
	r.store.synapses[ref.Collection][ref.Key] = cs
	return nil
}

// Remove deletes a stored synapse.
func (r *SynapseRepository) Remove(ctx context.Context, ref hive.ItemRef) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.synapses[ref.Collection][ref.Key]; !ok {
		return errors.NewNotFoundError("synapse")
	}
	delete(r.store.synapses[ref.Collection], ref.Key)
	return nil
}

// FindBetween returns the synapse for the exact directed pair, or nil.
func (r *SynapseRepository) FindBetween(ctx context.Context, collection, fromID, toID string) (*hive.Synapse, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, s := range r.store.synapses[collection] {
		if s.From == fromID && s.To == toID {
			return cloneSynapse(s), nil
		}
	}
	return nil, nil
}

// Adjacent returns every synapse touching pointID in either direction.
func (r *SynapseRepository) Adjacent(ctx context.Context, collection, pointID string) ([]*hive.Synapse, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var results []*hive.Synapse
	for _, s := range r.store.synapses[collection] {
		if s.From == pointID || s.To == pointID {
			results = append(results, cloneSynapse(s))
		}
	}
	return results, nil
}

// ManifestRepository implements ports.ManifestRepository.
type ManifestRepository struct {
	store *Store
}

// Create inserts a manifest and fills in its identity.
func (r *ManifestRepository) Create(ctx context.Context, m *hive.Manifest) (*hive.Manifest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cm := cloneManifest(m)
	cm.Key = newKey()
	cm.ID = gardenCollection + "/" + cm.Key
	r.store.manifests[cm.Key] = cm
	return cloneManifest(cm), nil
}

// Get retrieves a manifest by hive id.
func (r *ManifestRepository) Get(ctx context.Context, hiveID string) (*hive.Manifest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	m, ok := r.store.manifests[manifestKey(hiveID)]
	if !ok {
		return nil, errors.NewNotFoundError("hive")
	}
	return cloneManifest(m), nil
}

// Replace overwrites a stored manifest.
func (r *ManifestRepository) Replace(ctx context.Context, m *hive.Manifest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.manifests[m.Key]; !ok {
		return errors.NewNotFoundError("hive")
	}
	r.store.manifests[m.Key] = cloneManifest(m)
	return nil
}

// BumpParticipation applies the participation bump under the store mutex.
func (r *ManifestRepository) BumpParticipation(ctx context.Context, hiveID, date string, now time.Time, newParticipant bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m, ok := r.store.manifests[manifestKey(hiveID)]
	if !ok {
		return errors.NewNotFoundError("hive")
	}
	m.BumpParticipation(date, now, newParticipant)
	return nil
}

// BumpPointCount applies the point-count bump under the store mutex.
func (r *ManifestRepository) BumpPointCount(ctx context.Context, hiveID, date string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m, ok := r.store.manifests[manifestKey(hiveID)]
	if !ok {
		return errors.NewNotFoundError("hive")
	}
	m.BumpPointCount(date)
	return nil
}

// TouchLastParticipation refreshes the last-participation time only.
func (r *ManifestRepository) TouchLastParticipation(ctx context.Context, hiveID string, now time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m, ok := r.store.manifests[manifestKey(hiveID)]
	if !ok {
		return errors.NewNotFoundError("hive")
	}
	m.TimeOfLastParticipation = now
	return nil
}

// DecrementTotals reverses cumulative counters, floored at zero.
func (r *ManifestRepository) DecrementTotals(ctx context.Context, hiveID string, points, participation int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m, ok := r.store.manifests[manifestKey(hiveID)]
	if !ok {
		return errors.NewNotFoundError("hive")
	}
	m.Decrement(points, participation)
	return nil
}

// List returns one page of manifests in the requested order.
func (r *ManifestRepository) List(ctx context.Context, page ports.YardPage) ([]*hive.Manifest, error) {
	r.store.mu.RLock()
	all := make([]*hive.Manifest, 0, len(r.store.manifests))
	for _, m := range r.store.manifests {
		all = append(all, cloneManifest(m))
	}
	r.store.mu.RUnlock()

	sortManifests(all, page.Sort, page.Order)
	return pageOf(all, page), nil
}

// Count returns the total number of manifests.
func (r *ManifestRepository) Count(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.manifests), nil
}

// SearchByTitle returns a ranked page of title matches plus the match count.
func (r *ManifestRepository) SearchByTitle(ctx context.Context, phrase string, page ports.YardPage) ([]*hive.Manifest, int, error) {
	r.store.mu.RLock()
	type match struct {
		manifest *hive.Manifest
		score    int
	}
	tokens := tokenize(phrase)
	var matches []match
	for _, m := range r.store.manifests {
		score := tokenScore(m.Title, tokens)
		if score > 0 {
			matches = append(matches, match{manifest: cloneManifest(m), score: score})
		}
	}
	r.store.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	ranked := make([]*hive.Manifest, 0, len(matches))
	for _, m := range matches {
		ranked = append(ranked, m.manifest)
	}
	return pageOf(ranked, page), len(ranked), nil
}

// UserRepository implements ports.UserRepository.
type UserRepository struct {
	store *Store
}

// Create inserts a user and fills in its identity.
func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cu := cloneUser(u)
	cu.Key = newKey()
	cu.ID = usersCollection + "/" + cu.Key
	r.store.users[cu.Key] = cu
	return cloneUser(cu), nil
}

// GetByID retrieves a user by full id.
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[userKey(userID)]
	if !ok {
		return nil, errors.NewNotFoundError("user")
	}
	return cloneUser(u), nil
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, errors.NewNotFoundError("user")
}

// SetCurrentHive records the user's default hive.
func (r *UserRepository) SetCurrentHive(ctx context.Context, userID, hiveID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[userKey(userID)]
	if !ok {
		return errors.NewNotFoundError("user")
	}
	u.CurrentHiveID = hiveID
	return nil
}

// SetLastCreatedItem records or clears the user's undo stamp.
func (r *UserRepository) SetLastCreatedItem(ctx context.Context, userID, stamp string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[userKey(userID)]
	if !ok {
		return errors.NewNotFoundError("user")
	}
	u.LastCreatedItem = stamp
	return nil
}

// ParticipationRepository implements ports.ParticipationRepository.
type ParticipationRepository struct {
	store *Store
}

// Get returns the edge for (userID, hiveID), or nil when none exists.
func (r *ParticipationRepository) Get(ctx context.Context, userID, hiveID string) (*user.Participation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.participation {
		if p.From == userID && p.To == hiveID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// Create inserts a new edge.
func (r *ParticipationRepository) Create(ctx context.Context, p *user.Participation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cp := *p
	cp.Key = newKey()
	r.store.participation[cp.Key] = &cp
	p.Key = cp.Key
	return nil
}

// SetLastDay advances the edge's last-participation date.
func (r *ParticipationRepository) SetLastDay(ctx context.Context, key, day string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.participation[key]
	if !ok {
		return errors.NewNotFoundError("participation edge")
	}
	p.LastDay = day
	return nil
}

// SavedHiveRepository implements ports.SavedHiveRepository.
type SavedHiveRepository struct {
	store *Store
}

// Add inserts a saved-hive link. Saving an already-saved hive is a no-op.
func (r *SavedHiveRepository) Add(ctx context.Context, s *user.SavedHive) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, e := range r.store.saved {
		if e.from == s.From && e.to == s.To {
			return nil
		}
	}
	r.store.saved[newKey()] = &savedEdge{from: s.From, to: s.To, ownership: s.Ownership}
	return nil
}

// Remove deletes the link for (userID, hiveID); not-found when absent.
func (r *SavedHiveRepository) Remove(ctx context.Context, userID, hiveID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for key, e := range r.store.saved {
		if e.from == userID && e.to == hiveID {
			delete(r.store.saved, key)
			return nil
		}
	}
	return errors.NewNotFoundError("saved hive")
}

// ListManifests returns the manifests of every hive the user has saved.
func (r *SavedHiveRepository) ListManifests(ctx context.Context, userID string) ([]*hive.Manifest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var results []*hive.Manifest
	for _, e := range r.store.saved {
		if e.from != userID {
			continue
		}
		if m, ok := r.store.manifests[manifestKey(e.to)]; ok {
			results = append(results, cloneManifest(m))
		}
	}
	return results, nil
}

// Helpers.

func manifestKey(hiveID string) string {
	return strings.TrimPrefix(hiveID, gardenCollection+"/")
}

func userKey(userID string) string {
	return strings.TrimPrefix(userID, usersCollection+"/")
}

func tokenize(phrase string) []string {
	return strings.Fields(strings.ToLower(phrase))
}

func tokenScore(text string, tokens []string) int {
	lowered := strings.ToLower(text)
	score := 0
	for _, tok := range tokens {
		if strings.Contains(lowered, tok) {
			score++
		}
	}
	return score
}

func sortManifests(all []*hive.Manifest, field ports.YardSort, order ports.YardOrder) {
	less := func(i, j int) bool {
		switch field {
		case ports.SortPoints:
			return all[i].TotalPoints < all[j].TotalPoints
		case ports.SortCreated:
			return all[i].DateCreated.Before(all[j].DateCreated)
		default:
			return all[i].TimeOfLastParticipation.Before(all[j].TimeOfLastParticipation)
		}
	}
	if order == ports.OrderAsc {
		sort.SliceStable(all, less)
	} else {
		sort.SliceStable(all, func(i, j int) bool { return less(j, i) })
	}
}

func pageOf(all []*hive.Manifest, page ports.YardPage) []*hive.Manifest {
	start := page.Offset()
	if start >= len(all) {
		return []*hive.Manifest{}
	}
	end := start + page.PerPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
