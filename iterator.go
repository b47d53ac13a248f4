package hashtable

import "github.com/pkg/errors"

// Iterator is an external cursor over a Table. It walks buckets in
// ascending index order and each chain from head to tail.
//
// The iterator borrows the bucket array the table had when Iterator was
// called. Removals and value overwrites on that array are visible to it,
// including removal of the entry under the cursor and of its successors.
// When the table later replaces the array (a resize, Grow or Clear), the
// iterator keeps walking the old array: keys added afterwards are not
// seen, and later overwrites are not reflected. Stale reports this state.
//
// Iterator is not restartable; call Table.Iterator again for a new pass.
type Iterator[K comparable, V any] struct {
	table      *Table[K, V]
	buckets    []*entry[K, V]
	current    *entry[K, V]
	index      int
	generation uint64
}

// Iterator returns a cursor positioned before the first entry.
func (t *Table[K, V]) Iterator() *Iterator[K, V] {
	t.lazyInit()
	return &Iterator[K, V]{
		table:      t,
		buckets:    t.buckets,
		generation: t.generation,
	}
}

// HasNext reports whether Next has an entry to return. It does not move
// the cursor.
func (it *Iterator[K, V]) HasNext() bool {
	e, _ := it.peek()
	return e != nil
}

// Next advances the cursor and returns the entry under it.
// It panics with ErrIteratorExhausted when HasNext would report false.
func (it *Iterator[K, V]) Next() Entry[K, V] {
	e, i := it.peek()
	if e == nil {
		panic(errors.WithStack(ErrIteratorExhausted))
	}
	it.current, it.index = e, i
	return Entry[K, V]{key: e.key, value: e.value, hash: e.hash}
}

// Stale reports whether the table has replaced the bucket array this
// iterator walks.
func (it *Iterator[K, V]) Stale() bool {
	return it.generation != it.table.generation
}

// peek finds the entry after the cursor: the next live link of the
// current chain, else the head of the next non-empty bucket.
func (it *Iterator[K, V]) peek() (*entry[K, V], int) {
	i := it.index
	if it.current != nil {
		for e := it.current.next; e != nil; e = e.next {
			if !e.removed {
				return e, i
			}
		}
		i++
	}
	for ; i < len(it.buckets); i++ {
		if e := it.buckets[i]; e != nil {
			return e, i
		}
	}
	return nil, i
}
