package cache

import "time"

// Cache lifetimes. Scenes and artifacts are pure functions of their input,
// so they only expire to bound disk and memory use.
const (
	TTLScene    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// SceneKey identifies the scene built from a normalized input.
	SceneKey(inputHash string, opts SceneKeyOpts) string
	// ArtifactKey identifies one rendered output of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// SceneKeyOpts holds the layout options that change a scene.
type SceneKeyOpts struct {
	Kind        string `json:"kind"`
	SlotCount   int    `json:"slot_count,omitempty"`
	StrictChain bool   `json:"strict_chain,omitempty"`
	Positioned  bool   `json:"positioned,omitempty"`
	Style       string `json:"style,omitempty"`
	Caption     string `json:"caption,omitempty"`
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Style  string  `json:"style,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes its inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) SceneKey(inputHash string, opts SceneKeyOpts) string {
	return hashKey("scene", inputHash, opts)
}

func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
