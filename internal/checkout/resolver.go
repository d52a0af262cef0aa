package checkout

import (
	"context"
	"errors"

	"github.com/wmbgolfco/engraving-backend/pkg/logger"
	"github.com/wmbgolfco/engraving-backend/pkg/metrics"
)

// CatalogLookup finds the first variant of an external product. An empty id
// with a nil error means the product does not exist.
type CatalogLookup interface {
	VariantByHandle(ctx context.Context, handle string) (string, error)
	VariantByTitle(ctx context.Context, title string) (string, error)
}

// Resolver maps external product identities to merchandise ids through the
// shared VariantCache.
type Resolver struct {
	lookup  CatalogLookup
	cache   *VariantCache
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics
}

func NewResolver(lookup CatalogLookup, cache *VariantCache, logg *logger.Logger, m *metrics.CheckoutMetrics) (*Resolver, error) {
	if lookup == nil {
		return nil, errors.New("catalog lookup is required")
	}
	if cache == nil {
		cache = NewVariantCache(0, nil)
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Resolver{lookup: lookup, cache: cache, logg: logg, metrics: m}, nil
}

// ResolveProduct tries the handle first and falls back to an exact title
// match. It returns "" when neither finds a product.
func (r *Resolver) ResolveProduct(ctx context.Context, handle, title string) string {
	if handle != "" {
		if id := r.resolve(ctx, "handle:"+handle, func() (string, error) {
			return r.lookup.VariantByHandle(ctx, handle)
		}); id != "" {
			return id
		}
	}
	if title != "" {
		return r.ResolveTitle(ctx, title)
	}
	return ""
}

// ResolveTitle looks up a product by exact (case-insensitive) title.
func (r *Resolver) ResolveTitle(ctx context.Context, title string) string {
	return r.resolve(ctx, "title:"+title, func() (string, error) {
		return r.lookup.VariantByTitle(ctx, title)
	})
}

// Cache exposes the shared cache for manual invalidation.
func (r *Resolver) Cache() *VariantCache {
	return r.cache
}

// Lookup errors are logged and treated as a miss so one unreachable product
// never aborts the whole assembly.
func (r *Resolver) resolve(ctx context.Context, key string, fetch func() (string, error)) string {
	if id, ok := r.cache.Get(key); ok {
		r.metrics.ObserveCacheLookup(true)
		return id
	}
	r.metrics.ObserveCacheLookup(false)
	id, err := fetch()
	if err != nil {
		r.logg.Error(r.logg.WithField(ctx, "lookup_key", key), "storefront lookup failed", err)
		return ""
	}
	r.cache.Set(key, id)
	return id
}
