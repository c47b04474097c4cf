package cache

// ScopedKeyer prefixes every key produced by another Keyer. The CLI uses
// it to keep its entries apart from other tenants of a shared Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "patentfig:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) SceneKey(inputHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(inputHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}
