package cache

// ScopedKeyer prefixes every key produced by an inner [Keyer]. The server
// uses it to keep tenants apart: two tenants posting the same document
// still get separate entries.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer prefixes keys from inner (the [DefaultKeyer] when nil).
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// NewTenantKeyer scopes keys to a tenant as "tenant:<id>:". The id must
// already be validated by the caller.
func NewTenantKeyer(inner Keyer, tenant string) Keyer {
	return NewScopedKeyer(inner, "tenant:"+tenant+":")
}

func (k *ScopedKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(docHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
