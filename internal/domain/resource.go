package domain

import "time"

// ImageVariants maps a variant name (thumbnail, medium, original) to its
// public URL in the object store.
type ImageVariants map[string]string

// Resource describes one managed record kind: its route/envelope name and
// the singular prefix used for cache keys.
type Resource struct {
	Name     string `json:"name"`
	Singular string `json:"singular"`
}

var (
	Products   = Resource{Name: "products", Singular: "product"}
	Banners    = Resource{Name: "banners", Singular: "banner"}
	Categories = Resource{Name: "categories", Singular: "category"}
)

// Resources lists every record kind served by the API.
var Resources = []Resource{
	Products,
	Banners,
	Categories,
}

// CacheKey returns the cache key for a record id, e.g. "product:abc123".
func (r Resource) CacheKey(id string) string {
	return r.Singular + ":" + id
}

// NowMillis returns the current time as epoch milliseconds, the timestamp
// format stored in createdAt/updatedAt.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
