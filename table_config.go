package hashtable

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ============================================================================
// Configuration
// ============================================================================

// Config defines configurable options for Table initialization.
// It is only reachable through the With* option functions.
type Config struct {
	// capacity is the requested initial bucket count. It is raised to
	// MinimumCapacity and rounded up to a power of two.
	capacity int

	// keyHash holds a HashFunc[K] set by WithHasher. It is typed any
	// because Config is shared by every key type; New checks the type.
	keyHash any

	// keyEqual holds an EqualFunc[K] set by WithEqual.
	keyEqual any

	// logger receives Debug events for resizes and clears.
	logger *zap.Logger
}

// WithCapacity configures the initial bucket count. Values below
// MinimumCapacity are raised to it; other values are rounded up to the
// next power of two.
// Capacities too large for any bucket array make New panic with
// ErrCapacityOverflow.
func WithCapacity(capacity int) func(*Config) {
	return func(c *Config) {
		c.capacity = capacity
	}
}

// WithHasher sets the hash function for keys. It overrides both the
// built-in hasher and a HashCode method on the key type.
//
// Usage:
//
//	t := New[string, int](WithHasher(func(s string) int32 {
//		return HashString(strings.ToLower(s))
//	}))
//
// Notes:
//   - Equal keys must hash equally; pair a custom hasher with WithEqual
//     when equality is not ==.
//   - The key type of the function must match the table's key type,
//     otherwise New panics with ErrOptionType.
func WithHasher[K any](hash func(key K) int32) func(*Config) {
	return func(c *Config) {
		if hash != nil {
			c.keyHash = HashFunc[K](hash)
		}
	}
}

// WithEqual sets the key equality predicate. It overrides both == and an
// Equals method on the key type.
func WithEqual[K any](equal func(a, b K) bool) func(*Config) {
	return func(c *Config) {
		if equal != nil {
			c.keyEqual = EqualFunc[K](equal)
		}
	}
}

// WithLogger sets the logger used for resize and clear events. Events are
// logged at Debug level. A nil logger disables logging, which is also the
// default.
func WithLogger(logger *zap.Logger) func(*Config) {
	return func(c *Config) {
		c.logger = logger
	}
}

// HashCoder is implemented by key types that compute their own hash code.
//
// It is detected during Table initialization, takes precedence over the
// built-in hasher and is overridden by WithHasher.
//
// Usage:
//
//	type UserID struct {
//		Tenant string
//		ID     int32
//	}
//
//	func (u UserID) HashCode() int32 {
//		return 31*HashString(u.Tenant) + u.ID
//	}
type HashCoder interface {
	HashCode() int32
}

// Equaler is implemented by key types with their own notion of equality.
// It takes precedence over == and is overridden by WithEqual.
type Equaler[K any] interface {
	Equals(other K) bool
}

func parseKeyInterface[K comparable]() (keyHash HashFunc[K], keyEqual EqualFunc[K]) {
	var k K
	if _, ok := any(k).(HashCoder); ok {
		keyHash = func(key K) int32 {
			return any(key).(HashCoder).HashCode()
		}
	} else if _, ok = any(&k).(HashCoder); ok {
		keyHash = func(key K) int32 {
			return any(&key).(HashCoder).HashCode()
		}
	}
	if _, ok := any(k).(Equaler[K]); ok {
		keyEqual = func(a, b K) bool {
			return any(a).(Equaler[K]).Equals(b)
		}
	} else if _, ok = any(&k).(Equaler[K]); ok {
		keyEqual = func(a, b K) bool {
			return any(&a).(Equaler[K]).Equals(b)
		}
	}
	return
}

// optionOf unwraps a key-typed option value stored in Config.
func optionOf[T any](v any, name string) T {
	f, ok := v.(T)
	if !ok {
		panic(errors.Wrapf(ErrOptionType, "%s built for %T, table needs %T", name, v, *new(T)))
	}
	return f
}
