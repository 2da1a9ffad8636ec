package config

import "time"

// CacheConfig controls the Redis response cache applied to read-heavy
// routes (room listings). Only GET responses are cached; the TTL is short
// because availability changes with every booking.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads cache settings with defaults suited to room
// listings: enabled, 30 second TTL.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 30*time.Second),
		Prefix:  envStr("CACHE_PREFIX", "cache"),
	}
}
