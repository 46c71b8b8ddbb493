package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the interface for short-lived result caching.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from an arbitrary input string.
func Key(input string) string {
	hash := sha256.Sum256([]byte(input))
	return "claimwise:v1:" + hex.EncodeToString(hash[:])
}
