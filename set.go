package hashtable

import "iter"

// Set is a hash set backed by a Table with empty values. The zero Set is
// ready to use. Like Table, it is not safe for concurrent use and must not
// be copied after first use.
type Set[K comparable] struct {
	m       Table[K, struct{}]
	options []func(*Config)
}

// NewSet creates an empty Set configured by the Table options. Sets
// derived by Union, Intersect and Diff reuse the same options.
func NewSet[K comparable](options ...func(*Config)) *Set[K] {
	s := &Set[K]{options: options}
	var cfg Config
	for _, o := range options {
		o(&cfg)
	}
	s.m.init(&cfg)
	return s
}

// SetOf creates a Set with default options holding members.
func SetOf[K comparable](members ...K) *Set[K] {
	s := NewSet[K]()
	for _, k := range members {
		s.Add(k)
	}
	return s
}

// Add inserts k and reports whether it was not already a member.
func (s *Set[K]) Add(k K) bool {
	return s.m.PutIfAbsent(k, struct{}{})
}

// Contains reports whether k is a member.
func (s *Set[K]) Contains(k K) bool {
	return s.m.ContainsKey(k)
}

// Remove deletes k and reports whether it was a member.
func (s *Set[K]) Remove(k K) bool {
	return s.m.Remove(k)
}

// Size returns the number of members.
func (s *Set[K]) Size() int {
	return s.m.Size()
}

// All returns an iterator over members under the Table.Range contract.
func (s *Set[K]) All() iter.Seq[K] {
	return s.m.Keys()
}

// Members returns the members in iteration order.
func (s *Set[K]) Members() []K {
	res := make([]K, 0, s.m.Size())
	for k := range s.m.Keys() {
		res = append(res, k)
	}
	return res
}

// Union returns a new set holding the members of s and other.
func (s *Set[K]) Union(other *Set[K]) *Set[K] {
	res := NewSet[K](s.options...)
	res.m.Grow(s.Size() + other.Size())
	for k := range s.All() {
		res.Add(k)
	}
	for k := range other.All() {
		res.Add(k)
	}
	return res
}

// Intersect returns a new set holding the members of s that are also in
// other.
func (s *Set[K]) Intersect(other *Set[K]) *Set[K] {
	res := NewSet[K](s.options...)
	for k := range s.All() {
		if other.Contains(k) {
			res.Add(k)
		}
	}
	return res
}

// Diff returns a new set holding the members of s that are not in other.
func (s *Set[K]) Diff(other *Set[K]) *Set[K] {
	res := NewSet[K](s.options...)
	for k := range s.All() {
		if !other.Contains(k) {
			res.Add(k)
		}
	}
	return res
}
