// Package app implements the mount/unmount contract for a render root.
//
// An App binds one backend root to a table of routes. Mount builds the
// route's component against the root, either from scratch or by claiming
// server-rendered markup (ssr), and Unmount runs the owner's full
// destructor contract. Every top-level pipeline goes through a FIFO Queue
// so that at most one mount, unmount or render runs at a time.
//
//	a := app.New(dom.New(), root)
//	a.Handle("/", demo.Counter)
//	report, err := a.Mount(ctx, "/", true)
//	...
//	err = a.Unmount(ctx)
package app
