package hashtable

import (
	"hash/maphash"
	"math"
	"reflect"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// ============================================================================
// Public Constants
// ============================================================================

const (
	// MinimumCapacity is the smallest bucket count a Table ever has.
	// Smaller requested capacities are raised to it.
	MinimumCapacity = 16
	// LoadFactor is the occupancy at which a Table grows: a Put that
	// finds Size() >= floor(Capacity()*LoadFactor) resizes first.
	LoadFactor = 0.75
	// GrowthFactor multiplies the bucket count on every automatic resize.
	GrowthFactor = 2
)

// ============================================================================
// Private Constants
// ============================================================================

const (
	intSize = 32 << (^uint(0) >> 63) // 32 or 64

	// maxTableLen is the largest power of two a bucket count can take.
	maxTableLen = 1 << (intSize - 2)
)

// ============================================================================
// Sizing Utilities
// ============================================================================

// calcTableLen returns the bucket count for a requested capacity.
// return value must be a power of 2
func calcTableLen(capacity int) int {
	if capacity > maxTableLen {
		panic(errors.Wrapf(ErrCapacityOverflow, "capacity %d", capacity))
	}
	return nextPowOf2(max(capacity, MinimumCapacity))
}

// calcTableLenFor returns the smallest bucket count whose resize threshold
// admits entries keys without growing.
func calcTableLenFor(entries int) int {
	if entries > calcThreshold(maxTableLen) {
		panic(errors.Wrapf(ErrCapacityOverflow, "%d entries", entries))
	}
	tableLen := calcTableLen(int(math.Ceil(float64(entries) / LoadFactor)))
	for tableLen > 0 && calcThreshold(tableLen) < entries {
		tableLen <<= 1
	}
	return tableLen
}

// calcThreshold is floor(tableLen * LoadFactor).
func calcThreshold(tableLen int) int {
	return int(float64(tableLen) * LoadFactor)
}

// nextPowOf2 calculates the smallest power of 2 that is greater than or equal
// to n.
// Compatible with both 32-bit and 64-bit systems.
func nextPowOf2(n int) int {
	if n <= 0 {
		return 1
	}
	v := n - 1
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	if intSize == 64 {
		v |= v >> 32
	}
	return v + 1
}

// indexFor maps a hash code to a bucket index. tableLen is a power of two,
// so masking the unsigned hash equals hash mod tableLen and is never
// negative, including for negative hash codes.
func indexFor(hash int32, tableLen int) int {
	return int(uint32(hash) & uint32(tableLen-1))
}

// ============================================================================
// Hash Utilities
// ============================================================================

type (
	// HashFunc computes the 32-bit hash code of a key. It must return the
	// same value for a key for as long as the key lives in a Table, and
	// equal keys must produce equal hash codes.
	HashFunc[K any] func(key K) int32
	// EqualFunc reports whether two keys are equal.
	EqualFunc[K any] func(a, b K) bool
)

// HashString returns the hash code the default hasher uses for string keys.
// It is handy when implementing HashCoder on a struct with string fields.
func HashString(s string) int32 {
	return fold64(xxhash.Sum64String(s))
}

// HashBytes hashes b exactly like HashString(string(b)) without the copy.
func HashBytes(b []byte) int32 {
	return fold64(xxhash.Sum64(b))
}

// fold64 xors the high word into the low word.
func fold64(h uint64) int32 {
	return int32(uint32(h) ^ uint32(h>>32))
}

func defaultEqual[K comparable](a, b K) bool {
	return a == b
}

// defaultHasher picks a hash function for K by kind. Integer keys hash to
// themselves (folded to 32 bits), strings use xxhash, and everything else
// goes through hash/maphash with the table's seed.
func defaultHasher[K comparable](seed maphash.Seed) HashFunc[K] {
	kType := reflect.TypeFor[K]()
	switch kType.Kind() {
	case reflect.Int, reflect.Uint, reflect.Uintptr:
		if kType.Size() == 8 {
			return hashWord64[K]
		}
		return hashWord32[K]
	case reflect.Int64, reflect.Uint64:
		return hashWord64[K]
	case reflect.Int32, reflect.Uint32:
		return hashWord32[K]
	case reflect.Int16:
		return hashInt16[K]
	case reflect.Uint16:
		return hashUint16[K]
	case reflect.Int8:
		return hashInt8[K]
	case reflect.Uint8:
		return hashUint8[K]
	case reflect.Bool:
		return hashBool[K]
	case reflect.Float64:
		return hashFloat64[K]
	case reflect.Float32:
		return hashFloat32[K]
	case reflect.String:
		return hashString[K]
	default:
		return func(key K) int32 {
			return fold64(maphash.Comparable(seed, key))
		}
	}
}

func hashWord64[K any](key K) int32 {
	return fold64(*(*uint64)(unsafe.Pointer(&key)))
}

func hashWord32[K any](key K) int32 {
	return *(*int32)(unsafe.Pointer(&key))
}

func hashInt16[K any](key K) int32 {
	return int32(*(*int16)(unsafe.Pointer(&key)))
}

func hashUint16[K any](key K) int32 {
	return int32(*(*uint16)(unsafe.Pointer(&key)))
}

func hashInt8[K any](key K) int32 {
	return int32(*(*int8)(unsafe.Pointer(&key)))
}

func hashUint8[K any](key K) int32 {
	return int32(*(*uint8)(unsafe.Pointer(&key)))
}

func hashBool[K any](key K) int32 {
	if *(*bool)(unsafe.Pointer(&key)) {
		return 1231
	}
	return 1237
}

// +0 and -0 compare equal, so both must hash like +0.
func hashFloat64[K any](key K) int32 {
	f := *(*float64)(unsafe.Pointer(&key))
	if f == 0 {
		f = 0
	}
	return fold64(math.Float64bits(f))
}

func hashFloat32[K any](key K) int32 {
	f := *(*float32)(unsafe.Pointer(&key))
	if f == 0 {
		f = 0
	}
	return int32(math.Float32bits(f))
}

func hashString[K any](key K) int32 {
	return HashString(*(*string)(unsafe.Pointer(&key)))
}

// ============================================================================
// Locker Utilities
// ============================================================================

// noCopy may be added to structs which must not be copied
// after the first use.
//
// See https://golang.org/issues/8005#issuecomment-190753527
// for details.
//
// Note that it must not be embedded, due to the Lock and Unlock methods.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
