package graph

import (
	"fmt"

	"github.com/matzehuels/mindlayout/pkg/errors"
	"github.com/matzehuels/mindlayout/pkg/mindmap"
)

// =============================================================================
// Document - Mind Map Serialization
// =============================================================================

// Document is the canonical serialization format for a mind map.
// Node order is preserved: when no node has the root ID, the first node is
// the root.
type Document struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a serialized idea node.
type Node struct {
	ID       string           `json:"id" bson:"id"`
	Title    string           `json:"title" bson:"title"`
	Body     string           `json:"body,omitempty" bson:"body,omitempty"`
	Cluster  int              `json:"cluster,omitempty" bson:"cluster,omitempty"` // 0 means unassigned
	Position mindmap.Position `json:"position" bson:"position"`
}

// Edge is a serialized, undirected connection between two nodes.
type Edge struct {
	Source       string `json:"source" bson:"source"`
	Target       string `json:"target" bson:"target"`
	Relationship string `json:"relationship,omitempty" bson:"relationship,omitempty"`
}

// =============================================================================
// Mindmap ↔ Document Conversion
// =============================================================================

// FromMindmap converts engine types to a Document.
func FromMindmap(nodes []mindmap.Node, edges []mindmap.Edge) Document {
	out := Document{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = Node{ID: n.ID, Title: n.Title, Body: n.Body, Cluster: n.Cluster, Position: n.Position}
	}
	for i, e := range edges {
		out.Edges[i] = Edge{Source: e.Source, Target: e.Target, Relationship: string(e.Relationship)}
	}
	return out
}

// ToMindmap validates the document and converts it to engine types.
// Unassigned clusters are normalized to 1. Edges referencing unknown nodes
// are kept; the engine ignores them.
func (d Document) ToMindmap() ([]mindmap.Node, []mindmap.Edge, error) {
	if err := d.Validate(); err != nil {
		return nil, nil, err
	}

	nodes := make([]mindmap.Node, len(d.Nodes))
	for i, n := range d.Nodes {
		nodes[i] = mindmap.Node{
			ID:       n.ID,
			Title:    n.Title,
			Body:     n.Body,
			Cluster:  mindmap.NormalizeCluster(n.Cluster),
			Position: n.Position,
		}
	}
	edges := make([]mindmap.Edge, len(d.Edges))
	for i, e := range d.Edges {
		edges[i] = mindmap.Edge{Source: e.Source, Target: e.Target, Relationship: mindmap.Relationship(e.Relationship)}
	}
	return nodes, edges, nil
}

// Validate checks node IDs, clusters and edge relationships.
func (d Document) Validate() error {
	for _, n := range d.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return err
		}
		if err := errors.ValidateCluster(n.ID, n.Cluster); err != nil {
			return err
		}
	}

	nodes := make([]mindmap.Node, len(d.Nodes))
	for i, n := range d.Nodes {
		nodes[i] = mindmap.Node{ID: n.ID, Cluster: n.Cluster}
	}
	edges := make([]mindmap.Edge, len(d.Edges))
	for i, e := range d.Edges {
		edges[i] = mindmap.Edge{Source: e.Source, Target: e.Target, Relationship: mindmap.Relationship(e.Relationship)}
	}
	if err := mindmap.Validate(nodes, edges); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "invalid document")
	}
	return nil
}

// NodeByID returns the node with the given ID.
func (d Document) NodeByID(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// ApplyLayout returns a copy of d with node positions replaced by those in
// positions. Nodes without an entry keep their position.
func ApplyLayout(d Document, positions map[string]mindmap.Position) Document {
	out := Document{
		Nodes: make([]Node, len(d.Nodes)),
		Edges: append([]Edge(nil), d.Edges...),
	}
	for i, n := range d.Nodes {
		if p, ok := positions[n.ID]; ok {
			n.Position = p
		}
		out.Nodes[i] = n
	}
	return out
}

// String summarizes the document for log lines.
func (d Document) String() string {
	return fmt.Sprintf("document(%d nodes, %d edges)", len(d.Nodes), len(d.Edges))
}
