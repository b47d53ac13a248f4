package hashtable

import "github.com/pkg/errors"

var (
	// ErrIteratorExhausted is the panic value of Iterator.Next when no
	// entries remain. Callers must check HasNext first.
	ErrIteratorExhausted = errors.New("hashtable: iterator has no more entries")

	// ErrConcurrentResize is the panic value of a range over All, Keys,
	// Values or Range whose table replaced its bucket array mid-loop.
	ErrConcurrentResize = errors.New("hashtable: bucket array replaced during range")

	// ErrNilKey is the panic value of keyed operations given a nil
	// interface key.
	ErrNilKey = errors.New("hashtable: nil key")

	// ErrOptionType is the panic value of New when WithHasher or WithEqual
	// was built for a different key type.
	ErrOptionType = errors.New("hashtable: option key type mismatch")

	// ErrCapacityOverflow is the panic value of New and Grow when the
	// requested size exceeds the largest bucket count a Table can have.
	ErrCapacityOverflow = errors.New("hashtable: capacity overflow")

	// errCorrupt is returned by verify when an invariant does not hold.
	errCorrupt = errors.New("hashtable: corrupt table")
)
