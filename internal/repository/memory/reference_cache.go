package memory

import (
	"time"

	"visaforge-be/pkg/webref"

	"github.com/patrickmn/go-cache"
)

// ReferenceCache keeps fetched reference pages for a short TTL, keyed by URL.
type ReferenceCache struct {
	cache *cache.Cache
}

// DefaultReferenceTTL applies when no positive TTL is configured.
const DefaultReferenceTTL = 5 * time.Minute

func NewReferenceCache(ttl time.Duration) *ReferenceCache {
	if ttl <= 0 {
		ttl = DefaultReferenceTTL
	}
	return &ReferenceCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *ReferenceCache) Get(url string) (webref.Reference, bool) {
	if x, found := r.cache.Get(url); found {
		return x.(webref.Reference), true
	}
	return webref.Reference{}, false
}

func (r *ReferenceCache) Set(url string, ref webref.Reference) {
	r.cache.Set(url, ref, cache.DefaultExpiration)
}
