package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTLs.
//
// Implementations must be safe for concurrent use. A miss is reported as
// (nil, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs per pipeline stage. Parsed graphs and scenes are pure
// functions of their inputs; the TTLs only bound disk and memory use.
const (
	TTLGraph    = 7 * 24 * time.Hour
	TTLScene    = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Key version prefixes. Bump a version when the cached encoding changes.
const (
	prefixGraph    = "graph:v1"
	prefixScene    = "scene:v1"
	prefixArtifact = "artifact:v1"
)

// =============================================================================
// Keyer
// =============================================================================

// Keyer derives cache keys for the three pipeline stages.
type Keyer interface {
	// GraphKey keys parsed graphs by the hash of the raw input.
	GraphKey(inputHash string, opts GraphKeyOpts) string
	// SceneKey keys laid-out scenes by the hash of the parsed graphs.
	SceneKey(graphHash string, opts SceneKeyOpts) string
	// ArtifactKey keys rendered output by the hash of the scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// GraphKeyOpts holds the parse options that affect the parsed graphs.
type GraphKeyOpts struct {
	Format string `json:"format"`
}

// SceneKeyOpts holds the layout options that affect node positions.
type SceneKeyOpts struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Padding    float64 `json:"padding"`
	Spacing    float64 `json:"spacing"`
	Arranged   bool    `json:"arranged"`
	ConfigHash string  `json:"config_hash"`
}

// ArtifactKeyOpts holds the render options that affect output bytes.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Labels     bool   `json:"labels"`
	Background string `json:"background,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey implements Keyer.
func (DefaultKeyer) GraphKey(inputHash string, opts GraphKeyOpts) string {
	return hashKey(prefixGraph, inputHash, opts)
}

// SceneKey implements Keyer.
func (DefaultKeyer) SceneKey(graphHash string, opts SceneKeyOpts) string {
	return hashKey(prefixScene, graphHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey(prefixArtifact, sceneHash, opts)
}
