package memory

import (
	"strconv"
	"time"

	"featureboard-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// ProductCache holds product rows for read-through lookups. Entries are
// copies, so callers may mutate what they get back.
type ProductCache struct {
	cache *cache.Cache
}

func NewProductCache(ttl time.Duration) *ProductCache {
	// purge expired items at twice the TTL
	return &ProductCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func productKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

func (r *ProductCache) Save(product *entity.Product) {
	cp := *product
	r.cache.Set(productKey(product.Id), &cp, cache.DefaultExpiration)
}

func (r *ProductCache) Get(id int64) (*entity.Product, bool) {
	if x, found := r.cache.Get(productKey(id)); found {
		cp := *x.(*entity.Product)
		return &cp, true
	}
	return nil, false
}

func (r *ProductCache) Delete(id int64) {
	r.cache.Delete(productKey(id))
}
