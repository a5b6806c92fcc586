// Package cache provides pluggable storage for computed layouts and
// rendered previews.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON entries on local disk, used by the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [MongoCache]: durable cache with a TTL index
//   - [TieredCache]: fast cache in front of a durable one
//
// # Keys
//
// Keys are derived by a [Keyer] from a content hash plus every option that
// influences the result, so a changed document or parameter never hits a
// stale entry:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.LayoutKey(cache.Hash(docJSON), cache.LayoutKeyOpts{Strategy: "radial", Seed: 42})
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
// Get reports a miss with (nil, false, nil); errors are reserved for
// backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default time-to-live values. Layouts are pure functions of their inputs,
// so they can be kept for a long time.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLBackfill = time.Hour
)

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies a computed layout of a document.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered preview of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every engine parameter that changes a layout.
type LayoutKeyOpts struct {
	Strategy       string  `json:"strategy"`
	BaseRadius     float64 `json:"base_radius"`
	DepthIncrement float64 `json:"depth_increment"`
	ChildSpread    float64 `json:"child_spread"`
	SectorGap      float64 `json:"sector_gap"`
	MinSectorAngle float64 `json:"min_sector_angle"`
	NodePadding    float64 `json:"node_padding"`
	MaxPasses      int     `json:"max_passes"`
	Seed           uint64  `json:"seed"`
}

// ArtifactKeyOpts holds every render parameter that changes a preview.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Detailed  bool    `json:"detailed"`
	HideEdges bool    `json:"hide_edges"`
	Scale     float64 `json:"scale,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<version>:<sha256>".
func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// ArtifactKey returns "artifact:<version>:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
