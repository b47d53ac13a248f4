//go:build hashtable_checks

package opt

// Checks_ enables invariant verification after every bucket array swap.
// Verification walks the whole table, so it is meant for tests only.
const Checks_ = true
