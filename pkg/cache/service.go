package cache

import "time"

// Cache keys shared by the freight usecase and handlers.
const (
	KeyFreightConfig = "freight:config"
	KeyZoneCatalog   = "freight:zones"
)

// CacheService defines the behavior for caching mechanisms.
// Values are stored as-is; callers must not mutate what Get returns.
type CacheService interface {
	// Get returns the value and true, or nil and false when absent or expired.
	Get(key string) (interface{}, bool)

	// Set stores a value for duration. A zero duration uses the cache default.
	Set(key string, value interface{}, duration time.Duration)

	Delete(key string)

	// Flush removes all items
	Flush()
}
