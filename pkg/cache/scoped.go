package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful in shared deployments where different users or
// contexts need separate cache namespaces.
//
// Example usage:
//
//	// User-specific keys for private family graphs
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
//
//	// Global keys for shared graphs
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// ConnectionsKey generates a prefixed key for derived-connection caching.
func (k *ScopedKeyer) ConnectionsKey(graphHash string) string {
	return k.prefix + k.inner.ConnectionsKey(graphHash)
}

// TransitionKey generates a prefixed key for transition caching.
func (k *ScopedKeyer) TransitionKey(fromHash, toHash string, threshold float64) string {
	return k.prefix + k.inner.TransitionKey(fromHash, toHash, threshold)
}

// ArtifactKey generates a prefixed key for rendered-export caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
