package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Key derives a deterministic cache key from an operation name, its
// positional arguments in order, and its named arguments sorted by name.
// Calls that differ only in positional order produce different keys; calls
// with identical arguments always collide.
func Key(prefix string, args []any, kwargs map[string]any) string {
	parts := make([]string, 0, 1+len(args)+len(kwargs))
	parts = append(parts, prefix)

	for _, arg := range args {
		parts = append(parts, fmt.Sprint(arg))
	}

	names := make([]string, 0, len(kwargs))
	for name := range kwargs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", name, kwargs[name]))
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}

// Memoize returns the cached value for key, computing and storing it on a
// miss. Failed computations are never cached. Retry wrappers belong around
// the compute function, outside the cache lookup, so a hit costs nothing.
func Memoize[T any](c *Cache, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	if cached, ok := c.Get(key); ok {
		if value, ok := cached.(T); ok {
			return value, nil
		}
	}

	value, err := compute()
	if err != nil {
		return value, err
	}

	c.Set(key, value, ttl)
	return value, nil
}
