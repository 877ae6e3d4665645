// Package ssr serializes component trees for server-side rendering.
//
// RenderToString builds a component against a serializing backend, writes
// the markup, and tears the tree down again, all on the render queue so
// that concurrent requests never interleave their reactive work. Handler
// serves rendered pages over chi together with /metrics and the /live op
// stream, and Exporter uploads every page to S3.
package ssr
