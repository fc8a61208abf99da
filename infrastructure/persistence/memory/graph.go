package memory

import (
	"context"
	"fmt"

	"hivemind/application/ports"
	"hivemind/domain/hive"
	"hivemind/pkg/errors"
)

func errUnknownCollection(name string) error {
	return fmt.Errorf("collection %q does not exist", name)
}

func errUnknownView(name string) error {
	return fmt.Errorf("view %q does not exist", name)
}

// Provisioner implements ports.Provisioner.
type Provisioner struct {
	store *Store
}

// CreateGraph registers the hive's graph and creates both collections.
func (p *Provisioner) CreateGraph(ctx context.Context, graphName, pointCollection, synapseCollection string) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	if _, ok := p.store.graphs[graphName]; ok {
		return errors.NewDatabaseError("create graph", fmt.Errorf("graph %q already exists", graphName))
	}
	p.store.graphs[graphName] = graphDef{
		pointCollection:   pointCollection,
		synapseCollection: synapseCollection,
	}
	p.store.points[pointCollection] = make(map[string]*hive.Point)
	p.store.synapses[synapseCollection] = make(map[string]*hive.Synapse)
	return nil
}

// DropGraph removes the graph together with its collections.
func (p *Provisioner) DropGraph(ctx context.Context, graphName string) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	def, ok := p.store.graphs[graphName]
	if !ok {
		return nil
	}
	delete(p.store.graphs, graphName)
	delete(p.store.points, def.pointCollection)
	delete(p.store.synapses, def.synapseCollection)
	return nil
}

// CreateSearchView registers a search view over one field.
func (p *Provisioner) CreateSearchView(ctx context.Context, viewName, collection, field string) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	if _, ok := p.store.views[viewName]; ok {
		return errors.NewDatabaseError("create search view", fmt.Errorf("view %q already exists", viewName))
	}
	p.store.views[viewName] = viewDef{collection: collection, field: field}
	return nil
}

// DropView removes a search view.
func (p *Provisioner) DropView(ctx context.Context, viewName string) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	delete(p.store.views, viewName)
	return nil
}

// Traverser implements ports.Traverser with breadth-first search over the
// registered graph. Vertices get their shortest hop distance first, then
// every edge walkable within the depth bound is emitted, so cross edges
// between already-reached vertices come back the same way a path-unique
// store traversal returns them.
type Traverser struct {
	store *Store
}

// Subgraph walks from originID up to depth hops in either direction.
func (t *Traverser) Subgraph(ctx context.Context, graphName, originID string, depth int) ([]ports.TraversalPair, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	def, ok := t.store.graphs[graphName]
	if !ok {
		return nil, errors.NewDatabaseError("traverse subgraph", fmt.Errorf("graph %q does not exist", graphName))
	}

	ref, err := hive.ParseItemRef(originID)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	origin, ok := t.store.points[ref.Collection][ref.Key]
	if !ok {
		return nil, errors.NewNotFoundError("point")
	}

	hops := map[string]int{origin.ID: 0}
	queue := []string{origin.ID}
	for len(queue) > 0 {
		curID := queue[0]
		queue = queue[1:]
		if hops[curID] == depth {
			continue
		}
		for _, s := range t.store.synapses[def.synapseCollection] {
			var nextID string
			switch curID {
			case s.From:
				nextID = s.To
			case s.To:
				nextID = s.From
			default:
				continue
			}
			if _, seen := hops[nextID]; seen {
				continue
			}
			if t.pointByID(nextID) == nil {
				continue
			}
			hops[nextID] = hops[curID] + 1
			queue = append(queue, nextID)
		}
	}

	pairs := []ports.TraversalPair{{Point: clonePoint(origin)}}
	for _, s := range t.store.synapses[def.synapseCollection] {
		fromHops, okFrom := hops[s.From]
		toHops, okTo := hops[s.To]
		if !okFrom || !okTo {
			continue
		}
		// An edge is walked only if stepping across it stays within depth.
		near, farID := fromHops, s.To
		if toHops < near {
			near, farID = toHops, s.From
		}
		if near >= depth {
			continue
		}
		far := t.pointByID(farID)
		if far == nil {
			continue
		}
		pairs = append(pairs, ports.TraversalPair{Point: clonePoint(far), Synapse: cloneSynapse(s)})
	}
	return pairs, nil
}

// pointByID resolves a point document without holding extra locks; callers
// hold the store lock already.
func (t *Traverser) pointByID(id string) *hive.Point {
	ref, err := hive.ParseItemRef(id)
	if err != nil {
		return nil
	}
	return t.store.points[ref.Collection][ref.Key]
}
