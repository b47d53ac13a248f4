//go:build !hashtable_checks

package opt

// Checks_ enables invariant verification after every bucket array swap.
// Use: go test -tags=hashtable_checks
const Checks_ = false
