package graph

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/mindlayout/pkg/errors"
	"github.com/matzehuels/mindlayout/pkg/layout"
	"github.com/matzehuels/mindlayout/pkg/mindmap"
)

const essayJSON = `{
  "nodes": [
    {"id": "root", "title": "Essay", "position": {"x": 10, "y": 20}},
    {"id": "a", "title": "Solar power", "body": "Panels on roofs", "cluster": 2},
    {"id": "b", "title": "Carbon tax", "cluster": 3}
  ],
  "edges": [
    {"source": "root", "target": "a", "relationship": "supports"},
    {"source": "root", "target": "b"}
  ]
}`

func TestUnmarshalDocument(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode errors.Code
		check    func(t *testing.T, d Document)
	}{
		{
			name:  "Essay",
			input: essayJSON,
			check: func(t *testing.T, d Document) {
				if len(d.Nodes) != 3 || len(d.Edges) != 2 {
					t.Fatalf("got %d nodes, %d edges", len(d.Nodes), len(d.Edges))
				}
				if d.Nodes[0].Position != (mindmap.Position{X: 10, Y: 20}) {
					t.Errorf("root position = %v", d.Nodes[0].Position)
				}
				if d.Nodes[1].Body != "Panels on roofs" {
					t.Errorf("body = %q", d.Nodes[1].Body)
				}
				if d.Edges[0].Relationship != "supports" {
					t.Errorf("relationship = %q", d.Edges[0].Relationship)
				}
			},
		},
		{
			name:  "Empty",
			input: `{"nodes": [], "edges": []}`,
			check: func(t *testing.T, d Document) {
				if len(d.Nodes) != 0 {
					t.Errorf("nodes = %d, want 0", len(d.Nodes))
				}
			},
		},
		{
			name:     "Malformed",
			input:    `{"nodes": [`,
			wantCode: errors.ErrCodeInvalidFormat,
		},
		{
			name:     "DuplicateID",
			input:    `{"nodes": [{"id": "a"}, {"id": "a"}]}`,
			wantCode: errors.ErrCodeInvalidDocument,
		},
		{
			name:     "EmptyID",
			input:    `{"nodes": [{"id": ""}]}`,
			wantCode: errors.ErrCodeInvalidDocument,
		},
		{
			name:     "ClusterOutOfRange",
			input:    `{"nodes": [{"id": "a", "cluster": 9}]}`,
			wantCode: errors.ErrCodeInvalidDocument,
		},
		{
			name:     "UnknownRelationship",
			input:    `{"nodes": [{"id": "a"}, {"id": "b"}], "edges": [{"source": "a", "target": "b", "relationship": "hates"}]}`,
			wantCode: errors.ErrCodeInvalidDocument,
		},
		{
			name:  "DanglingEdgeAllowed",
			input: `{"nodes": [{"id": "a"}], "edges": [{"source": "a", "target": "ghost"}]}`,
			check: func(t *testing.T, d Document) {
				if len(d.Edges) != 1 {
					t.Errorf("edges = %d, want 1", len(d.Edges))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := UnmarshalDocument([]byte(tt.input))
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalDocument: %v", err)
			}
			if tt.check != nil {
				tt.check(t, d)
			}
		})
	}
}

func TestDocumentToMindmap(t *testing.T) {
	d, err := UnmarshalDocument([]byte(essayJSON))
	if err != nil {
		t.Fatal(err)
	}

	nodes, edges, err := d.ToMindmap()
	if err != nil {
		t.Fatalf("ToMindmap: %v", err)
	}
	if nodes[0].Cluster != mindmap.MinCluster {
		t.Errorf("unassigned cluster = %d, want %d", nodes[0].Cluster, mindmap.MinCluster)
	}
	if nodes[1].Cluster != 2 {
		t.Errorf("cluster = %d, want 2", nodes[1].Cluster)
	}
	if edges[0].Relationship != mindmap.RelationshipSupports {
		t.Errorf("relationship = %q", edges[0].Relationship)
	}

	back := FromMindmap(nodes, edges)
	if back.Nodes[1].Title != "Solar power" || back.Edges[1].Target != "b" {
		t.Errorf("FromMindmap lost data: %+v", back)
	}
}

func TestApplyLayout(t *testing.T) {
	d, err := UnmarshalDocument([]byte(essayJSON))
	if err != nil {
		t.Fatal(err)
	}

	out := ApplyLayout(d, map[string]mindmap.Position{"a": {X: 250, Y: 0}})

	if got, _ := out.NodeByID("a"); got.Position != (mindmap.Position{X: 250, Y: 0}) {
		t.Errorf("a position = %v, want (250, 0)", got.Position)
	}
	if got, _ := out.NodeByID("root"); got.Position != (mindmap.Position{X: 10, Y: 20}) {
		t.Errorf("root position changed to %v", got.Position)
	}
	if orig, _ := d.NodeByID("a"); orig.Position != (mindmap.Position{}) {
		t.Errorf("ApplyLayout mutated its input: %v", orig.Position)
	}
}

func TestDocumentFileRoundTrip(t *testing.T) {
	d, err := UnmarshalDocument([]byte(essayJSON))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "essay.json")
	if err := WriteDocumentFile(d, path); err != nil {
		t.Fatalf("WriteDocumentFile: %v", err)
	}
	got, err := ReadDocumentFile(path)
	if err != nil {
		t.Fatalf("ReadDocumentFile: %v", err)
	}
	if len(got.Nodes) != 3 || got.Nodes[2].Title != "Carbon tax" {
		t.Errorf("round trip mismatch: %+v", got)
	}

	_, err = ReadDocumentFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestMarshalDocumentEmpty(t *testing.T) {
	data, err := MarshalDocument(Document{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"nodes": []`)) || !bytes.Contains(data, []byte(`"edges": []`)) {
		t.Errorf("empty document should serialize empty arrays, got %s", data)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	nodes := []mindmap.Node{
		{ID: "root", Title: "Essay"},
		{ID: "a", Title: "Alpha", Cluster: 1},
	}
	edges := []mindmap.Edge{{Source: "root", Target: "a"}}
	res := layout.ComputeWithStats(nodes, edges)

	l := FromResult(res, len(edges))
	if l.Stats.Nodes != 2 || l.Stats.Edges != 1 || !l.Stats.Converged || l.Stats.Residual != 0 {
		t.Errorf("stats = %+v", l.Stats)
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if got.Strategy != "radial" {
		t.Errorf("strategy = %q", got.Strategy)
	}
	if got.Positions["a"] != l.Positions["a"] {
		t.Errorf("position a = %v, want %v", got.Positions["a"], l.Positions["a"])
	}
}

func TestUnmarshalLayoutErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode errors.Code
	}{
		{"Malformed", `{`, errors.ErrCodeInvalidFormat},
		{"UnknownStrategy", `{"strategy": "spiral", "positions": {}}`, errors.ErrCodeInvalidStrategy},
		{"MissingPositions", `{"strategy": "force"}`, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalLayout([]byte(tt.input))
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}

	l, err := UnmarshalLayout([]byte(`{"positions": {"root": {"x": 1, "y": 2}}}`))
	if err != nil {
		t.Fatal(err)
	}
	if l.Strategy != "radial" {
		t.Errorf("default strategy = %q, want radial", l.Strategy)
	}
}

func TestDocumentString(t *testing.T) {
	d := Document{Nodes: make([]Node, 2)}
	if s := d.String(); !strings.Contains(s, "2 nodes") {
		t.Errorf("String() = %q", s)
	}
}
