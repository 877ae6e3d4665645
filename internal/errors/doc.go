// Package errors provides coded, structured errors for the lumen runtime.
//
// Every failure the runtime surfaces carries a stable code that maps to a
// registered template:
//
//	err := errors.New("L001").WithDetail("growthFactor must be > 1")
//	fmt.Println(err.Format())
//
// # Error Categories
//
//   - config: invalid pool or scheduler configuration, fails at the call site
//   - runtime: misuse of reactive primitives (unknown tracked field)
//   - destructor: cleanup callbacks that failed during teardown
//   - hydration: server markup that does not match the live tree
//   - backend: a backend that lacks a required capability
//   - routing: mount/unmount contract violations
//
// Hydration errors are reported, not returned: the matcher recovers by
// rebuilding the mismatched subtree.
package errors
