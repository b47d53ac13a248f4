package hashtable

import (
	"fmt"
	"hash/maphash"
	"iter"
	"math"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/llxisdsh/hashtable/internal/opt"
)

// Table is a hash table that maps unique keys to values. Buckets hold
// singly linked chains of entries, and a colliding key is spliced in
// right after its bucket's head.
//
// Core properties:
//   - Capacity is a power of two and never below MinimumCapacity
//   - Put grows the table by GrowthFactor once Size reaches
//     floor(Capacity*LoadFactor), before inserting
//   - The table never shrinks
//   - A key's hash code is computed once and reused by every resize
//
// Usage recommendations:
//   - Direct declaration: var t Table[string, int]
//   - Pre-allocate buckets: New[string, int](WithCapacity(1024))
//
// Notes:
//   - Table is not safe for concurrent use. Guard a shared table with a
//     sync.Mutex or give each goroutine its own table.
//   - Table must not be copied after first use.
type Table[K comparable, V any] struct {
	_          noCopy
	buckets    []*entry[K, V]
	size       int
	threshold  int    // calcThreshold(len(buckets))
	generation uint64 // bumped whenever buckets is replaced
	growths    uint32
	keyHash    HashFunc[K]
	keyEqual   EqualFunc[K]
	nilable    bool // K is an interface type
	log        *zap.Logger
}

// New creates a new Table. Direct declaration of a zero Table is also
// supported and behaves like New without options.
//
// Parameters:
//   - options: configuration options (WithCapacity, WithHasher, WithEqual,
//     WithLogger)
//
// Configuration priority for hashing and equality (highest to lowest):
//   - WithHasher / WithEqual
//   - HashCoder / Equaler implemented by the key type
//   - built-in hasher and ==
func New[K comparable, V any](options ...func(*Config)) *Table[K, V] {
	t := &Table[K, V]{}
	var cfg Config
	for _, o := range options {
		o(&cfg)
	}
	t.init(&cfg)
	return t
}

func (t *Table[K, V]) init(cfg *Config) {
	keyHash, keyEqual := parseKeyInterface[K]()
	if cfg.keyHash != nil {
		keyHash = optionOf[HashFunc[K]](cfg.keyHash, "WithHasher")
	}
	if cfg.keyEqual != nil {
		keyEqual = optionOf[EqualFunc[K]](cfg.keyEqual, "WithEqual")
	}
	if keyHash == nil {
		keyHash = defaultHasher[K](maphash.MakeSeed())
	}
	if keyEqual == nil {
		keyEqual = defaultEqual[K]
	}
	t.keyHash, t.keyEqual = keyHash, keyEqual
	t.nilable = reflect.TypeFor[K]().Kind() == reflect.Interface
	t.log = cfg.logger
	if t.log == nil {
		t.log = zap.NewNop()
	}
	t.setBuckets(make([]*entry[K, V], calcTableLen(cfg.capacity)))
}

// lazyInit prepares a zero Table on first mutation.
func (t *Table[K, V]) lazyInit() {
	if t.buckets == nil {
		t.init(&Config{})
	}
}

func (t *Table[K, V]) setBuckets(buckets []*entry[K, V]) {
	t.buckets = buckets
	t.threshold = calcThreshold(len(buckets))
	t.generation++
}

// checkKey rejects nil interface keys. nilable is unknown until init, so
// a zero Table always takes the slow check.
func (t *Table[K, V]) checkKey(key K) {
	if (t.nilable || t.buckets == nil) && any(key) == nil {
		panic(errors.WithStack(ErrNilKey))
	}
}

// Put associates value with key.
//
// Returns:
//   - true if key was newly added, false if an existing key's value was
//     overwritten (Size is then unchanged).
//
// Notes:
//   - The load check runs before the lookup, so a Put may resize the table
//     even when it only overwrites a value.
func (t *Table[K, V]) Put(key K, value V) bool {
	return t.put(key, value, true)
}

// PutIfAbsent adds the pair only when key is not present. An existing
// value is left untouched. Returns true if the pair was added.
func (t *Table[K, V]) PutIfAbsent(key K, value V) bool {
	return t.put(key, value, false)
}

// PutAll puts every pair produced by seq, in order, and returns how many
// keys were newly added.
func (t *Table[K, V]) PutAll(seq iter.Seq2[K, V]) int {
	added := 0
	for k, v := range seq {
		if t.Put(k, v) {
			added++
		}
	}
	return added
}

func (t *Table[K, V]) put(key K, value V, overwrite bool) bool {
	t.checkKey(key)
	t.lazyInit()
	if t.size >= t.threshold {
		t.resize(len(t.buckets) * GrowthFactor)
	}
	hash := t.keyHash(key)
	if e := t.findEntry(hash, key); e != nil {
		if overwrite {
			e.value = value
		}
		return false
	}
	splice(t.buckets, &entry[K, V]{key: key, value: value, hash: hash})
	t.size++
	return true
}

// Get returns the value stored for key, or the zero value and false.
func (t *Table[K, V]) Get(key K) (value V, ok bool) {
	t.checkKey(key)
	if t.size == 0 {
		return value, false
	}
	if e := t.findEntry(t.keyHash(key), key); e != nil {
		return e.value, true
	}
	return value, false
}

// GetOrDefault returns the value stored for key, or def when key is absent.
func (t *Table[K, V]) GetOrDefault(key K, def V) V {
	if v, ok := t.Get(key); ok {
		return v
	}
	return def
}

// ContainsKey reports whether key is present.
func (t *Table[K, V]) ContainsKey(key K) bool {
	_, ok := t.Get(key)
	return ok
}

func (t *Table[K, V]) findEntry(hash int32, key K) *entry[K, V] {
	for e := t.buckets[indexFor(hash, len(t.buckets))]; e != nil; e = e.next {
		if e.hash == hash && t.keyEqual(e.key, key) {
			return e
		}
	}
	return nil
}

// Remove deletes key and reports whether it was present. Removing an
// absent key is a no-op. Capacity is never reduced.
func (t *Table[K, V]) Remove(key K) bool {
	t.checkKey(key)
	if t.size == 0 {
		return false
	}
	hash := t.keyHash(key)
	i := indexFor(hash, len(t.buckets))
	var prev *entry[K, V]
	for e := t.buckets[i]; e != nil; prev, e = e, e.next {
		if e.hash != hash || !t.keyEqual(e.key, key) {
			continue
		}
		// e.next stays intact: an iterator parked on e continues from it
		// and skips nodes marked removed.
		if prev == nil {
			t.buckets[i] = e.next
		} else {
			prev.next = e.next
		}
		e.removed = true
		t.size--
		return true
	}
	return false
}

// Size returns the number of key-value pairs in the table.
func (t *Table[K, V]) Size() int {
	return t.size
}

// Capacity returns the current number of buckets.
func (t *Table[K, V]) Capacity() int {
	if t.buckets == nil {
		return MinimumCapacity
	}
	return len(t.buckets)
}

// Grow makes room for sizeAdd more keys, so that inserting them triggers
// no automatic resize. It never shrinks the table; sizeAdd <= 0 is a no-op.
// It panics with ErrCapacityOverflow when Size()+sizeAdd keys cannot fit
// in any bucket array.
func (t *Table[K, V]) Grow(sizeAdd int) {
	if sizeAdd <= 0 {
		return
	}
	if sizeAdd > math.MaxInt-t.size {
		panic(errors.Wrapf(ErrCapacityOverflow, "%d + %d entries", t.size, sizeAdd))
	}
	t.lazyInit()
	t.resize(calcTableLenFor(t.size + sizeAdd))
}

// resize re-homes every entry into a new bucket array of newCapacity
// buckets, walking the old array in bucket then chain order. Entries are
// copied rather than relinked, so iterators over the old array keep a
// consistent view. Requests that would not grow the table are ignored.
func (t *Table[K, V]) resize(newCapacity int) {
	oldCapacity := len(t.buckets)
	if newCapacity <= oldCapacity {
		return
	}
	buckets := make([]*entry[K, V], newCapacity)
	for _, head := range t.buckets {
		for e := head; e != nil; e = e.next {
			splice(buckets, &entry[K, V]{key: e.key, value: e.value, hash: e.hash})
		}
	}
	t.setBuckets(buckets)
	t.growths++
	t.log.Debug("hashtable resized",
		zap.Int("from", oldCapacity),
		zap.Int("to", newCapacity),
		zap.Int("size", t.size),
		zap.Uint32("growths", t.growths),
	)
	if opt.Checks_ {
		t.mustVerify()
	}
}

// Clear removes every entry. The capacity is kept, but the bucket array is
// replaced, so outstanding iterators keep their old view and become stale.
func (t *Table[K, V]) Clear() {
	if t.buckets == nil {
		return
	}
	removed := t.size
	t.setBuckets(make([]*entry[K, V], len(t.buckets)))
	t.size = 0
	t.log.Debug("hashtable cleared",
		zap.Int("removed", removed),
		zap.Int("capacity", len(t.buckets)),
	)
	if opt.Checks_ {
		t.mustVerify()
	}
}

// ToMap copies the table into a new Go map.
func (t *Table[K, V]) ToMap() map[K]V {
	m := make(map[K]V, t.size)
	for k, v := range t.All() {
		m[k] = v
	}
	return m
}

// Clone returns an independent copy with the same capacity, hashing,
// equality and logger. Entries are re-homed like a resize does.
func (t *Table[K, V]) Clone() *Table[K, V] {
	clone := &Table[K, V]{}
	if t.buckets == nil {
		return clone
	}
	clone.keyHash, clone.keyEqual = t.keyHash, t.keyEqual
	clone.nilable, clone.log = t.nilable, t.log
	buckets := make([]*entry[K, V], len(t.buckets))
	for _, head := range t.buckets {
		for e := head; e != nil; e = e.next {
			splice(buckets, &entry[K, V]{key: e.key, value: e.value, hash: e.hash})
		}
	}
	clone.setBuckets(buckets)
	clone.size = t.size
	return clone
}

// String formats the table like fmt formats a Go map, in iteration order:
// hashtable.Table[k1:v1 k2:v2].
func (t *Table[K, V]) String() string {
	var sb strings.Builder
	sb.WriteString("hashtable.Table[")
	first := true
	for k, v := range t.All() {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&sb, "%v:%v", k, v)
	}
	sb.WriteByte(']')
	return sb.String()
}

// ============================================================================
// Range Views
// ============================================================================

// Range calls yield for each pair in bucket then chain order until yield
// returns false.
//
// Notes:
//   - Removing keys or overwriting values from inside yield is allowed.
//   - Inserting keys may resize the table. Once the bucket array has been
//     replaced the next step panics with ErrConcurrentResize instead of
//     continuing over a stale array. Use Iterator for the lenient view.
func (t *Table[K, V]) Range(yield func(key K, value V) bool) {
	buckets, generation := t.buckets, t.generation
	for _, head := range buckets {
		for e := head; e != nil; e = e.next {
			if t.generation != generation {
				panic(errors.WithStack(ErrConcurrentResize))
			}
			if e.removed {
				continue
			}
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// All returns an iterator over key-value pairs for range-over-func.
// It follows the contract of Range.
func (t *Table[K, V]) All() iter.Seq2[K, V] {
	return t.Range
}

// Keys returns an iterator over keys. It follows the contract of Range.
func (t *Table[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		t.Range(func(key K, _ V) bool {
			return yield(key)
		})
	}
}

// Values returns an iterator over values. It follows the contract of Range.
func (t *Table[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		t.Range(func(_ K, value V) bool {
			return yield(value)
		})
	}
}

// ============================================================================
// Diagnostics
// ============================================================================

// Stats is a snapshot of the table layout.
//
// Notes:
//   - Stats is intended for diagnostics and tests; computing it walks every
//     bucket.
type Stats struct {
	// Capacity is the number of buckets.
	Capacity int
	// Size is the number of entries found by walking every chain.
	Size int
	// EmptyBuckets is the number of buckets without entries.
	EmptyBuckets int
	// MinChain is the shortest chain among non-empty buckets.
	MinChain int
	// MaxChain is the longest chain.
	MaxChain int
	// TotalGrowths is the number of automatic or Grow resizes.
	TotalGrowths uint32
}

// String returns string representation of table stats.
func (s *Stats) String() string {
	var sb strings.Builder
	sb.WriteString("Stats{\n")
	sb.WriteString(fmt.Sprintf("Capacity:     %d\n", s.Capacity))
	sb.WriteString(fmt.Sprintf("Size:         %d\n", s.Size))
	sb.WriteString(fmt.Sprintf("EmptyBuckets: %d\n", s.EmptyBuckets))
	sb.WriteString(fmt.Sprintf("MinChain:     %d\n", s.MinChain))
	sb.WriteString(fmt.Sprintf("MaxChain:     %d\n", s.MaxChain))
	sb.WriteString(fmt.Sprintf("TotalGrowths: %d\n", s.TotalGrowths))
	sb.WriteString("}\n")
	return sb.String()
}

// Stats walks the table and returns its layout statistics.
func (t *Table[K, V]) Stats() *Stats {
	stats := &Stats{
		Capacity:     t.Capacity(),
		TotalGrowths: t.growths,
		MinChain:     math.MaxInt,
	}
	for _, head := range t.buckets {
		chain := 0
		for e := head; e != nil; e = e.next {
			chain++
		}
		stats.Size += chain
		if chain == 0 {
			stats.EmptyBuckets++
			continue
		}
		stats.MinChain = min(stats.MinChain, chain)
		stats.MaxChain = max(stats.MaxChain, chain)
	}
	if t.buckets == nil {
		stats.EmptyBuckets = stats.Capacity
	}
	if stats.MaxChain == 0 {
		stats.MinChain = 0
	}
	return stats
}

// verify checks the structural invariants: power-of-two capacity of at
// least MinimumCapacity, every entry in the bucket its cached hash maps
// to, distinct keys per chain, and a size that matches the chains.
func (t *Table[K, V]) verify() error {
	if t.buckets == nil {
		if t.size != 0 {
			return errors.Wrapf(errCorrupt, "size %d without buckets", t.size)
		}
		return nil
	}
	n := len(t.buckets)
	if n < MinimumCapacity || n&(n-1) != 0 {
		return errors.Wrapf(errCorrupt, "capacity %d", n)
	}
	if t.threshold != calcThreshold(n) {
		return errors.Wrapf(errCorrupt, "threshold %d for capacity %d", t.threshold, n)
	}
	count := 0
	for i, head := range t.buckets {
		for e := head; e != nil; e = e.next {
			count++
			if t.keyHash(e.key) != e.hash {
				return errors.Wrapf(errCorrupt, "key %v: cached hash %d is stale", e.key, e.hash)
			}
			if idx := indexFor(e.hash, n); idx != i {
				return errors.Wrapf(errCorrupt, "key %v in bucket %d, want %d", e.key, i, idx)
			}
			for o := e.next; o != nil; o = o.next {
				if t.keyEqual(o.key, e.key) {
					return errors.Wrapf(errCorrupt, "duplicate key %v in bucket %d", e.key, i)
				}
			}
		}
	}
	if count != t.size {
		return errors.Wrapf(errCorrupt, "size %d, chains hold %d", t.size, count)
	}
	return nil
}

func (t *Table[K, V]) mustVerify() {
	if err := t.verify(); err != nil {
		panic(err)
	}
}
