// Package graphstore mirrors built knowledge graphs into Neo4j. The mirror
// is optional: without a configured URI every operation is a no-op, and sync
// failures never fail the processing pipeline.
package graphstore

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/inkwell-ai/studygraph/backend/pkg/graph"
)

// Store writes graphs to a Neo4j database. A nil *Store is valid and
// disabled.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewStoreParams configures a Store. An empty URI disables the mirror.
type NewStoreParams struct {
	URI      string
	User     string
	Password string
	Database string
}

// NewStore connects to Neo4j and verifies connectivity. It returns
// (nil, nil) when no URI is configured.
func NewStore(params NewStoreParams) (*Store, error) {
	if params.URI == "" {
		return nil, nil
	}

	user := params.User
	if user == "" {
		user = "neo4j"
	}

	driver, err := neo4j.NewDriverWithContext(
		params.URI,
		neo4j.BasicAuth(user, params.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("graphstore: init driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("graphstore: verify connectivity: %w", err)
	}

	return &Store{
		driver:   driver,
		database: params.Database,
	}, nil
}

// Enabled reports whether the mirror is configured.
func (s *Store) Enabled() bool {
	return s != nil && s.driver != nil
}

// Close shuts the driver down.
func (s *Store) Close(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.driver.Close(ctx)
}

// SyncGraph replaces the stored copy of graphID with g. Nodes carry the
// graph id so several graphs can share the database.
func (s *Store) SyncGraph(ctx context.Context, graphID string, g graph.Graph) error {
	if !s.Enabled() {
		return nil
	}

	nodes := make([]map[string]any, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		nodes = append(nodes, map[string]any{
			"id":         node.ID,
			"label":      node.Label,
			"type":       node.Type,
			"importance": node.Properties.Importance,
			"frequency":  node.Properties.Frequency,
			"difficulty": node.Properties.Difficulty,
		})
	}
	edges := make([]map[string]any, 0, len(g.Edges))
	for _, edge := range g.Edges {
		edges = append(edges, map[string]any{
			"id":            edge.ID,
			"from":          edge.From,
			"to":            edge.To,
			"type":          edge.Type,
			"weight":        edge.Weight,
			"bidirectional": edge.Properties.Bidirectional,
		})
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, `
MATCH (c:Concept {graph_id: $graph_id})
DETACH DELETE c
`, map[string]any{"graph_id": graphID}); err != nil {
			return nil, err
		}

		if _, err := tx.Run(ctx, `
UNWIND $nodes AS node
MERGE (c:Concept {graph_id: $graph_id, id: node.id})
SET c.label = node.label,
    c.type = node.type,
    c.importance = node.importance,
    c.frequency = node.frequency,
    c.difficulty = node.difficulty
`, map[string]any{"graph_id": graphID, "nodes": nodes}); err != nil {
			return nil, err
		}

		if _, err := tx.Run(ctx, `
UNWIND $edges AS edge
MATCH (from:Concept {graph_id: $graph_id, id: edge.from})
MATCH (to:Concept {graph_id: $graph_id, id: edge.to})
MERGE (from)-[r:RELATES {id: edge.id}]->(to)
SET r.type = edge.type,
    r.weight = edge.weight,
    r.bidirectional = edge.bidirectional
`, map[string]any{"graph_id": graphID, "edges": edges}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// DeleteGraph removes the stored copy of graphID.
func (s *Store) DeleteGraph(ctx context.Context, graphID string) error {
	if !s.Enabled() {
		return nil
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, `
MATCH (c:Concept {graph_id: $graph_id})
DETACH DELETE c
`, map[string]any{"graph_id": graphID})
	})
	return err
}
