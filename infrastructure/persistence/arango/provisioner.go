package arango

import (
	"context"

	driver "github.com/arangodb/go-driver"
	"go.uber.org/zap"

	"hivemind/pkg/errors"
)

// Provisioner creates and tears down per-hive graphs and search views.
// Creating a named graph also creates its vertex and edge collections.
type Provisioner struct {
	db     driver.Database
	logger *zap.Logger
}

// NewProvisioner creates a new provisioner.
func NewProvisioner(db driver.Database, logger *zap.Logger) *Provisioner {
	return &Provisioner{db: db, logger: logger}
}

// CreateGraph creates the hive's named graph and both collections.
func (p *Provisioner) CreateGraph(ctx context.Context, graphName, pointCollection, synapseCollection string) error {
	_, err := p.db.CreateGraph(ctx, graphName, &driver.CreateGraphOptions{
		EdgeDefinitions: []driver.EdgeDefinition{{
			Collection: synapseCollection,
			From:       []string{pointCollection},
			To:         []string{pointCollection},
		}},
	})
	if err != nil {
		return errors.NewDatabaseError("create graph", err)
	}
	return nil
}

// DropGraph removes the hive's graph together with its collections.
func (p *Provisioner) DropGraph(ctx context.Context, graphName string) error {
	graph, err := p.db.Graph(ctx, graphName)
	if err != nil {
		if driver.IsNotFound(err) {
			return nil
		}
		return errors.NewDatabaseError("open graph", err)
	}

	// Collect the member collections before removing the graph definition.
	var members []string
	if edgeDefs, _, err := graph.EdgeCollections(ctx); err == nil {
		for _, def := range edgeDefs {
			members = append(members, def.Name())
		}
	}
	if vertexCols, err := graph.VertexCollections(ctx); err == nil {
		for _, vc := range vertexCols {
			members = append(members, vc.Name())
		}
	}

	if err := graph.Remove(ctx); err != nil {
		return errors.NewDatabaseError("drop graph", err)
	}
	for _, name := range members {
		col, err := p.db.Collection(ctx, name)
		if err != nil {
			continue
		}
		if err := col.Remove(ctx); err != nil {
			p.logger.Warn("Failed to drop hive collection",
				zap.String("collection", name),
				zap.Error(err),
			)
		}
	}
	return nil
}

// CreateSearchView creates the hive's search view over one field.
func (p *Provisioner) CreateSearchView(ctx context.Context, viewName, collection, field string) error {
	_, err := p.db.CreateArangoSearchView(ctx, viewName, &driver.ArangoSearchViewProperties{
		Links: driver.ArangoSearchLinks{
			collection: driver.ArangoSearchElementProperties{
				Fields: driver.ArangoSearchFields{
					field: driver.ArangoSearchElementProperties{
						Analyzers: []string{"text_en"},
					},
				},
			},
		},
	})
	if err != nil {
		return errors.NewDatabaseError("create search view", err)
	}
	return nil
}

// DropView removes a search view.
func (p *Provisioner) DropView(ctx context.Context, viewName string) error {
	view, err := p.db.View(ctx, viewName)
	if err != nil {
		if driver.IsNotFound(err) {
			return nil
		}
		return errors.NewDatabaseError("open view", err)
	}
	if err := view.Remove(ctx); err != nil {
		return errors.NewDatabaseError("drop view", err)
	}
	return nil
}
