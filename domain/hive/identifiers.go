// Package hive contains the core entities of the debate graph: points,
// synapses, responses and the hive manifest, together with the naming
// scheme that maps a hive's namespace onto its physical collections.
package hive

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Fixed collection-name prefixes. The prefix is the only place the physical
// kind of a collection is encoded, so everything that needs to reason about
// an identifier goes through ParseItemRef instead of poking at characters.
const (
	PointPrefix   = "st-"
	SynapsePrefix = "sn-"
	GraphPrefix   = "gr-"
	ViewPrefix    = "vw-"
)

// Namespace is the opaque token that keys all physical names a hive owns.
type Namespace string

// NewNamespace generates a fresh namespace token.
func NewNamespace() Namespace {
	return Namespace(uuid.New().String())
}

func (n Namespace) String() string { return string(n) }

// PointCollection returns the name of the namespace's point collection.
func (n Namespace) PointCollection() string { return PointPrefix + string(n) }

// SynapseCollection returns the name of the namespace's synapse collection.
func (n Namespace) SynapseCollection() string { return SynapsePrefix + string(n) }

// GraphName returns the name of the namespace's traversal graph.
func (n Namespace) GraphName() string { return GraphPrefix + string(n) }

// ViewName returns the name of the namespace's search view.
func (n Namespace) ViewName() string { return ViewPrefix + string(n) }

// GraphForCollection derives the traversal-graph name from a point or synapse
// collection name. This is the inverse direction of the scheme and is how a
// traversal locates its graph given only an item's collection tag.
func GraphForCollection(collection string) (string, error) {
	switch {
	case strings.HasPrefix(collection, PointPrefix):
		return GraphPrefix + strings.TrimPrefix(collection, PointPrefix), nil
	case strings.HasPrefix(collection, SynapsePrefix):
		return GraphPrefix + strings.TrimPrefix(collection, SynapsePrefix), nil
	default:
		return "", fmt.Errorf("collection %q is not part of a hive namespace", collection)
	}
}

// ItemKind discriminates the two graph item kinds.
type ItemKind int

const (
	KindPoint ItemKind = iota
	KindSynapse
)

func (k ItemKind) String() string {
	if k == KindPoint {
		return "point"
	}
	return "synapse"
}

// ItemRef is a parsed graph item identifier. The kind is resolved exactly
// once, here, from the collection prefix; callers branch on Kind instead of
// re-inspecting the raw string.
type ItemRef struct {
	Kind       ItemKind
	Collection string
	Key        string
}

// ID reassembles the canonical "<collection>/<key>" identifier.
func (r ItemRef) ID() string { return r.Collection + "/" + r.Key }

// Namespace recovers the namespace token the item belongs to.
func (r ItemRef) Namespace() Namespace {
	if r.Kind == KindPoint {
		return Namespace(strings.TrimPrefix(r.Collection, PointPrefix))
	}
	return Namespace(strings.TrimPrefix(r.Collection, SynapsePrefix))
}

// ParseItemRef splits a "<collection>/<key>" identifier and resolves its kind
// from the collection prefix. Identifiers that do not name a point or synapse
// collection are rejected.
func ParseItemRef(id string) (ItemRef, error) {
	collection, key, ok := strings.Cut(id, "/")
	if !ok || collection == "" || key == "" {
		return ItemRef{}, fmt.Errorf("malformed item id %q", id)
	}

	switch {
	case strings.HasPrefix(collection, PointPrefix):
		return ItemRef{Kind: KindPoint, Collection: collection, Key: key}, nil
	case strings.HasPrefix(collection, SynapsePrefix):
		return ItemRef{Kind: KindSynapse, Collection: collection, Key: key}, nil
	default:
		return ItemRef{}, fmt.Errorf("item id %q does not name a point or synapse collection", id)
	}
}
