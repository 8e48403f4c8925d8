package cache

// ScopedKeyer prefixes every key of an inner Keyer. The binaries scope keys
// by release so a changed solver never serves geometry cached by an older
// one:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses the default
// keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SolveKey returns the prefixed solve key.
func (k *ScopedKeyer) SolveKey(chainHash string, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(chainHash, opts)
}

// SweepKey returns the prefixed sweep key.
func (k *ScopedKeyer) SweepKey(chainHash string, opts SweepKeyOpts) string {
	return k.prefix + k.inner.SweepKey(chainHash, opts)
}
