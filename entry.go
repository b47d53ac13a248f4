package hashtable

// entry is a bucket node. Colliding entries form a singly linked chain
// rooted at the bucket; hash is computed once on insertion. An unlinked
// node keeps its next link and is marked removed.
type entry[K comparable, V any] struct {
	key     K
	value   V
	hash    int32
	removed bool
	next    *entry[K, V]
}

// Entry is a snapshot of a table entry returned by Iterator.Next.
// Later changes to the table do not affect it.
type Entry[K comparable, V any] struct {
	key   K
	value V
	hash  int32
}

// Key returns the entry's key.
func (e Entry[K, V]) Key() K {
	return e.key
}

// Value returns the entry's value at the time it was produced.
func (e Entry[K, V]) Value() V {
	return e.value
}

// Hash returns the cached hash code of the key.
func (e Entry[K, V]) Hash() int32 {
	return e.hash
}

// splice links e into buckets at its hash index. A new entry becomes the
// head of an empty bucket; otherwise it goes right after the head.
func splice[K comparable, V any](buckets []*entry[K, V], e *entry[K, V]) {
	i := indexFor(e.hash, len(buckets))
	if head := buckets[i]; head != nil {
		e.next = head.next
		head.next = e
	} else {
		buckets[i] = e
	}
}
