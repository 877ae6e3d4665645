// Package control provides the control-flow primitives: If for
// conditional rendering and Each for keyed list reconciliation.
//
// Both are built only on the backend operations and the reactive core.
// Each returns a *render.Range whose content always reflects what is
// currently rendered, so the primitives nest inside each other and inside
// list items that move.
package control
