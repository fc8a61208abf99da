package arango

import (
	"context"

	driver "github.com/arangodb/go-driver"
	"go.uber.org/zap"

	"hivemind/application/ports"
	"hivemind/domain/hive"
	"hivemind/pkg/errors"
)

// Traverser walks per-hive graphs with AQL graph traversal.
type Traverser struct {
	db     driver.Database
	logger *zap.Logger
}

// NewTraverser creates a new traverser.
func NewTraverser(db driver.Database, logger *zap.Logger) *Traverser {
	return &Traverser{db: db, logger: logger}
}

// traversalRow is the raw shape returned per visited (vertex, edge) pair.
type traversalRow struct {
	Point   *hive.Point   `json:"point"`
	Synapse *hive.Synapse `json:"synapse"`
}

// Subgraph walks the graph from originID up to depth hops in either edge
// direction. Vertices are unique per path; the origin row carries a nil
// synapse.
func (t *Traverser) Subgraph(ctx context.Context, graphName, originID string, depth int) ([]ports.TraversalPair, error) {
	query := `
		FOR v, e IN 0..@depth ANY @origin GRAPH @graph
			OPTIONS {uniqueVertices: "path"}
			RETURN {point: v, synapse: e}`
	cursor, err := t.db.Query(ctx, query, map[string]interface{}{
		"depth":  depth,
		"origin": originID,
		"graph":  graphName,
	})
	if err != nil {
		return nil, errors.NewDatabaseError("traverse subgraph", err)
	}
	defer cursor.Close()

	var pairs []ports.TraversalPair
	for cursor.HasMore() {
		var row traversalRow
		if _, err := cursor.ReadDocument(ctx, &row); err != nil {
			return nil, errors.NewDatabaseError("read traversal row", err)
		}
		pairs = append(pairs, ports.TraversalPair{Point: row.Point, Synapse: row.Synapse})
	}
	return pairs, nil
}
