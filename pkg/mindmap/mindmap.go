package mindmap

import (
	"errors"
	"fmt"
	"math"
)

// RootID is the reserved node ID of the mind map's central idea.
const RootID = "root"

// Cluster bounds. Cluster 0 means "unassigned" and is normalized to MinCluster.
const (
	MinCluster = 1
	MaxCluster = 5
)

// Unreachable is the depth assigned to nodes with no path to the root.
const Unreachable = math.MaxInt

var (
	// ErrEmptyNodeID is returned by [Validate] when a node has no ID.
	ErrEmptyNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Validate] when two nodes share an ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidCluster is returned by [Validate] for clusters outside 0..5.
	ErrInvalidCluster = errors.New("cluster out of range")

	// ErrUnknownRelationship is returned by [Validate] for unrecognized edge types.
	ErrUnknownRelationship = errors.New("unknown relationship")
)

// Position is a 2-D coordinate in canvas units (y grows downward).
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns p translated by (dx, dy).
func (p Position) Add(dx, dy float64) Position { return Position{X: p.X + dx, Y: p.Y + dy} }

// Sub returns the vector from q to p.
func (p Position) Sub(q Position) (dx, dy float64) { return p.X - q.X, p.Y - q.Y }

// Dist returns the Euclidean distance between p and q.
func (p Position) Dist(q Position) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Node is a single idea in the mind map.
type Node struct {
	ID       string
	Title    string
	Body     string
	Cluster  int
	Position Position
}

// IsRoot reports whether the node carries the reserved root ID.
func (n Node) IsRoot() bool { return n.ID == RootID }

// Relationship classifies an edge. The layout engine ignores it.
type Relationship string

// Known relationships. The empty relationship is valid and means "untyped".
const (
	RelationshipNone       Relationship = ""
	RelationshipRelated    Relationship = "related"
	RelationshipElaborates Relationship = "elaborates"
	RelationshipSupports   Relationship = "supports"
	RelationshipContrasts  Relationship = "contrasts"
	RelationshipExample    Relationship = "example"
)

// Valid reports whether r is one of the known relationships.
func (r Relationship) Valid() bool {
	switch r {
	case RelationshipNone, RelationshipRelated, RelationshipElaborates,
		RelationshipSupports, RelationshipContrasts, RelationshipExample:
		return true
	}
	return false
}

// Edge connects two nodes. Source and Target order carries no meaning for layout.
type Edge struct {
	Source       string
	Target       string
	Relationship Relationship
}

// RootIndex returns the index of the root node: the node with [RootID], or 0
// when there is none. It returns -1 for an empty slice.
func RootIndex(nodes []Node) int {
	if len(nodes) == 0 {
		return -1
	}
	for i, n := range nodes {
		if n.ID == RootID {
			return i
		}
	}
	return 0
}

// NormalizeCluster maps the unassigned cluster (0) to MinCluster.
func NormalizeCluster(c int) int {
	if c == 0 {
		return MinCluster
	}
	return c
}

// Validate checks node IDs, clusters and relationships. Edges that reference
// unknown nodes are not an error: the engine ignores them.
func Validate(nodes []Node, edges []Edge) error {
	seen := make(map[string]struct{}, len(nodes))
	for i, n := range nodes {
		if n.ID == "" {
			return fmt.Errorf("node %d: %w", i, ErrEmptyNodeID)
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("node %q: %w", n.ID, ErrDuplicateNodeID)
		}
		seen[n.ID] = struct{}{}
		if n.Cluster < 0 || n.Cluster > MaxCluster {
			return fmt.Errorf("node %q: %w: %d", n.ID, ErrInvalidCluster, n.Cluster)
		}
	}
	for _, e := range edges {
		if !e.Relationship.Valid() {
			return fmt.Errorf("edge %s-%s: %w: %q", e.Source, e.Target, ErrUnknownRelationship, e.Relationship)
		}
	}
	return nil
}

// Sector is the angular range, in radians, assigned to one cluster.
// Angles grow clockwise on screen (y points down); End may exceed 2π.
type Sector struct {
	Cluster int     `json:"cluster" bson:"cluster"`
	Start   float64 `json:"start" bson:"start"`
	End     float64 `json:"end" bson:"end"`
}

// Width returns the angular width of the sector.
func (s Sector) Width() float64 { return s.End - s.Start }

// Mid returns the bisecting angle.
func (s Sector) Mid() float64 { return (s.Start + s.End) / 2 }

// Contains reports whether angle lies within the sector, modulo 2π.
func (s Sector) Contains(angle float64) bool {
	a := math.Mod(angle-s.Start, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a <= s.Width()+1e-9
}
