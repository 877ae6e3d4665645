// Package backend defines the node operations every renderer target
// implements.
//
// Control flow and rendering are written only against Backend, so the same
// component tree can drive an HTML document, a MathML document, a PDF
// element tree or a canvas scene. A backend is chosen once per render root
// and never mixed within one tree.
//
// Node handles are opaque: callers only pass them back into the backend
// that produced them.
//
// # Rehydration
//
// Backends that can enumerate existing nodes also implement Walker. The
// rehydration matcher needs it to claim server-rendered markup.
package backend
