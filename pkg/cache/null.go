package cache

import (
	"context"
	"time"
)

// NullCache disables caching: every lookup misses and writes are dropped.
// It backs the "none" backend and the --no-cache flag, and is what a
// [pipeline.Runner] falls back to when it is given no cache.
//
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/mindlayout/pkg/pipeline#Runner
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)          { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
