// Package session holds the per-instance, mutable configuration that would
// otherwise be package-level globals: SET/SHOW variables, the isolation
// level new transactions start at, and the bounded vector-distance
// memoization cache. One Config is constructed per engine.Instance and
// passed explicitly to whatever needs it, rather than read off a global.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"vdbms/index/vector"
	"vdbms/txn"
)

const defaultCacheSize = 4096

// Config is the live SET/SHOW state of one engine.Instance.
//
// Instance-wide toggles (logger, isolation level, cache) are threaded
// through explicit constructor parameters and accessors rather than
// package globals.
type Config struct {
	mu sync.RWMutex

	simdEnabled     bool
	parallelEnabled bool
	cacheEnabled    bool
	gcInterval      time.Duration
	isolation       txn.IsolationLevel
	logLevel        logrus.Level

	cache *vector.Cache
}

// NewConfig returns the documented defaults: no SIMD, no parallelism,
// caching off, a 30s GC period, snapshot isolation, info-level logging.
func NewConfig() *Config {
	return &Config{
		gcInterval: 30 * time.Second,
		isolation:  txn.SnapshotIsolation,
		logLevel:   logrus.InfoLevel,
	}
}

func (c *Config) SimdEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.simdEnabled
}

func (c *Config) ParallelEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.parallelEnabled
}

func (c *Config) GCInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gcInterval
}

func (c *Config) IsolationLevel() txn.IsolationLevel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isolation
}

func (c *Config) LogLevel() logrus.Level {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logLevel
}

// Cache returns the shared distance memoization cache, or nil when
// cache_enabled is false — vector.DistanceCached treats a nil cache as an
// unconditional miss, so callers never need to branch on cacheEnabled
// themselves.
func (c *Config) Cache() *vector.Cache {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.cacheEnabled {
		return nil
	}
	return c.cache
}

// Set applies `SET name = value`. An unrecognized name returns a plain
// error (not wrapped in common.ErrInvalidInput), reported by the caller.
func (c *Config) Set(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case "simd_enabled":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		c.simdEnabled = b
	case "parallel_enabled":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		c.parallelEnabled = b
	case "cache_enabled":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		c.cacheEnabled = b
		if b && c.cache == nil {
			c.cache = vector.NewCache(defaultCacheSize)
		}
	case "gc_interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("session: invalid gc_interval %q: %w", value, err)
		}
		c.gcInterval = d
	case "isolation_level":
		switch value {
		case "snapshot":
			c.isolation = txn.SnapshotIsolation
		case "serializable":
			c.isolation = txn.Serializable
		default:
			return fmt.Errorf("session: unknown isolation_level %q", value)
		}
	case "log_level":
		lvl, err := logrus.ParseLevel(value)
		if err != nil {
			return fmt.Errorf("session: invalid log_level %q: %w", value, err)
		}
		c.logLevel = lvl
	default:
		return fmt.Errorf("session: unknown variable %q", name)
	}
	return nil
}

// Show returns the current string form of a session variable, for `SHOW
// name`.
func (c *Config) Show(name string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "simd_enabled":
		return fmt.Sprintf("%v", c.simdEnabled), nil
	case "parallel_enabled":
		return fmt.Sprintf("%v", c.parallelEnabled), nil
	case "cache_enabled":
		return fmt.Sprintf("%v", c.cacheEnabled), nil
	case "gc_interval":
		return c.gcInterval.String(), nil
	case "isolation_level":
		if c.isolation == txn.Serializable {
			return "serializable", nil
		}
		return "snapshot", nil
	case "log_level":
		return c.logLevel.String(), nil
	default:
		return "", fmt.Errorf("session: unknown variable %q", name)
	}
}

func parseBool(value string) (bool, error) {
	switch value {
	case "true", "on", "1":
		return true, nil
	case "false", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("session: invalid boolean %q", value)
	}
}
