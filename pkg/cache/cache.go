// Package cache provides result caching for the family tree pipeline.
//
// Three backends are available:
//   - FileCache: entries as files under a directory, for CLI usage
//   - RedisCache: shared cache for server deployments
//   - NullCache: caching disabled
//
// Keys are built by a Keyer from content hashes plus the options that went
// into the computation, so a record edit or an option change always misses.
package cache

import (
	"context"
	"time"
)

// TTLs per cached artifact class. Derived trees and layouts are cheap to
// recompute but requested on every render; final artifacts are the largest
// entries and age out soonest.
const (
	TTLTree     = 24 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 6 * time.Hour
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a single entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Purge removes all entries.
	Purge(ctx context.Context) error

	// Close releases resources held by the cache.
	Close() error
}

// LayoutKeyOpts are the options that differentiate layout cache entries.
type LayoutKeyOpts struct {
	BoxWidth  float64
	BoxHeight float64
	GapX      float64
	GapY      float64
	Margin    float64
}

// ArtifactKeyOpts are the options that differentiate rendered artifacts.
type ArtifactKeyOpts struct {
	Format    string
	Title     string
	Sublabels bool
}

// Keyer builds cache keys for the pipeline stages.
type Keyer interface {
	// TreeKey keys the derived family forest by a hash of the flat records.
	TreeKey(recordsHash string) string

	// LayoutKey keys a computed layout by the forest hash and geometry.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by the layout hash and format options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key builder.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key builder.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TreeKey generates a key for the derived family forest.
func (DefaultKeyer) TreeKey(recordsHash string) string {
	return "tree:" + recordsHash
}

// LayoutKey generates a key for a computed layout.
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix, isolating cache namespaces when
// one deployment serves several family data sets.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// TreeKey generates a prefixed tree key.
func (k *ScopedKeyer) TreeKey(recordsHash string) string {
	return k.prefix + k.inner.TreeKey(recordsHash)
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
