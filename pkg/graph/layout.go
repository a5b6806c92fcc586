package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/mindlayout/pkg/errors"
	"github.com/matzehuels/mindlayout/pkg/layout"
	"github.com/matzehuels/mindlayout/pkg/mindmap"
)

// =============================================================================
// Layout - Computed Positions
// =============================================================================

// Layout is the serialization format for a computed layout.
type Layout struct {
	Strategy  string                      `json:"strategy" bson:"strategy"`
	Positions map[string]mindmap.Position `json:"positions" bson:"positions"`
	Stats     *Stats                      `json:"stats,omitempty" bson:"stats,omitempty"`
}

// Stats carries engine diagnostics alongside the positions.
type Stats struct {
	Nodes      int              `json:"nodes" bson:"nodes"`
	Edges      int              `json:"edges" bson:"edges"`
	Passes     int              `json:"passes" bson:"passes"`
	Collisions []int            `json:"collisions,omitempty" bson:"collisions,omitempty"`
	Residual   int              `json:"residual" bson:"residual"`
	Converged  bool             `json:"converged" bson:"converged"`
	Fallback   bool             `json:"fallback,omitempty" bson:"fallback,omitempty"`
	Sectors    []mindmap.Sector `json:"sectors,omitempty" bson:"sectors,omitempty"`
	Moved      int              `json:"moved,omitempty" bson:"moved,omitempty"`
}

// FromResult converts an engine result to its serialization format.
func FromResult(res layout.Result, edges int) Layout {
	return Layout{
		Strategy:  string(res.Strategy),
		Positions: res.Positions,
		Stats: &Stats{
			Nodes:      len(res.Positions),
			Edges:      edges,
			Passes:     res.Passes,
			Collisions: res.Collisions,
			Residual:   res.Residual,
			Converged:  res.Converged,
			Fallback:   res.Fallback,
			Sectors:    res.Sectors,
		},
	}
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	if l.Positions == nil {
		l.Positions = map[string]mindmap.Position{}
	}
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if l.Strategy == "" {
		l.Strategy = string(layout.StrategyRadial)
	}
	if !layout.Strategy(l.Strategy).Valid() {
		return Layout{}, errors.New(errors.ErrCodeInvalidStrategy, "unknown layout strategy %q", l.Strategy)
	}
	if l.Positions == nil {
		return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "layout must contain positions")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout %s", path)
		}
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
