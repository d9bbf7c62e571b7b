package query

import "net/url"

// Key identifies a cached query. Params are encoded in sorted order so the
// same filters always produce the same key, and every key for a resource
// shares the resource prefix, which is what mutation invalidation targets.
type Key struct {
	Resource string
	Params   url.Values
}

// NewKey builds a key for a resource with optional params
func NewKey(resource string, params url.Values) Key {
	return Key{Resource: resource, Params: params}
}

func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Resource
	}
	return k.Resource + "?" + k.Params.Encode()
}

// prefix is the invalidation scope for the key's resource
func (k Key) prefix() string {
	return k.Resource
}
