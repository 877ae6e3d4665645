package lumen

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	lerrors "github.com/vango-dev/lumen/internal/errors"
	"github.com/vango-dev/lumen/pkg/pool"
)

// Destructor is a cleanup callback that can fail.
type Destructor func() error

// AsyncDestructor is a cleanup callback that completes asynchronously, for
// example after an exit transition. It receives a context that is canceled
// when the waiter gives up.
type AsyncDestructor func(ctx context.Context) error

type destructor struct {
	sync  Destructor
	async AsyncDestructor
}

// destructorLists holds the per-owner destructor buffers.
var destructorLists = pool.New("destructors",
	func() *[]destructor {
		s := make([]destructor, 0, 4)
		return &s
	},
	func(s *[]destructor) {
		clear(*s)
		*s = (*s)[:0]
	},
)

// Owner is a node in the lifecycle tree. Destroying an owner destroys its
// children, disposes its effects and runs its destructors, exactly once.
//
// The parent link is a back-reference used for traversal only; ownership
// flows from parent to child through the children list.
type Owner struct {
	id  uint64
	tag string

	parent *Owner

	mu          sync.Mutex
	children    []*Owner
	effects     []*Effect
	destructors *[]destructor
	fields      map[any]*Fields

	destroyed atomic.Bool
}

// NewOwner creates an owner linked under parent. A nil parent creates a
// root owner.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{id: nextID()}
	if parent != nil {
		AddToTree(parent, o)
	}
	return o
}

// NewTaggedOwner is NewOwner with a debug tag.
func NewTaggedOwner(parent *Owner, tag string) *Owner {
	o := NewOwner(parent)
	o.tag = tag
	return o
}

// AddToTree links child under parent and appends it to parent's children.
// A child already linked elsewhere is moved. Adding to a destroyed parent
// destroys the child immediately.
func AddToTree(parent, child *Owner) {
	if parent == nil || child == nil || parent == child {
		return
	}
	if old := child.parent; old != nil && old != parent {
		old.removeChild(child)
	}
	child.parent = parent

	if parent.destroyed.Load() {
		RunDestructors(child)
		return
	}

	parent.mu.Lock()
	for _, c := range parent.children {
		if c == child {
			parent.mu.Unlock()
			return
		}
	}
	parent.children = append(parent.children, child)
	parent.mu.Unlock()
}

// ID returns the unique identifier for this owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Tag returns the debug tag.
func (o *Owner) Tag() string {
	return o.tag
}

// Parent returns the parent owner, or nil for a root.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// Children returns a snapshot of the child owners.
func (o *Owner) Children() []*Owner {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*Owner(nil), o.children...)
}

// IsDestroyed reports whether the owner has been torn down.
func (o *Owner) IsDestroyed() bool {
	return o.destroyed.Load()
}

func (o *Owner) removeChild(child *Owner) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

func (o *Owner) registerEffect(e *Effect) {
	if o.destroyed.Load() {
		return
	}
	o.mu.Lock()
	o.effects = append(o.effects, e)
	o.mu.Unlock()
}

func (o *Owner) addDestructor(d destructor) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.destroyed.Load() {
		return false
	}
	if o.destructors == nil {
		o.destructors = destructorLists.Acquire()
	}
	*o.destructors = append(*o.destructors, d)
	return true
}

// OnCleanup registers fn to run when the owner is destroyed. On an already
// destroyed owner fn runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	o.OnDestroy(func() error {
		fn()
		return nil
	})
}

// OnDestroy registers a destructor. On an already destroyed owner it runs
// immediately and a failure is logged.
func (o *Owner) OnDestroy(fn Destructor) {
	if o.addDestructor(destructor{sync: fn}) {
		return
	}
	if err := safeCall(fn); err != nil {
		logger().Warn("lumen: destructor on destroyed owner failed", "owner", o.id, "error", err)
	}
}

// OnDestroyAsync registers an asynchronous destructor. Teardown waits for it
// in Teardown.Wait.
func (o *Owner) OnDestroyAsync(fn AsyncDestructor) {
	if o.addDestructor(destructor{async: fn}) {
		return
	}
	go func() {
		if err := safeAsync(context.Background(), fn); err != nil {
			logger().Warn("lumen: async destructor on destroyed owner failed", "owner", o.id, "error", err)
		}
	}()
}

// Destroy tears the owner down and waits for asynchronous destructors.
func (o *Owner) Destroy(ctx context.Context) error {
	return RunDestructors(o).Wait(ctx)
}

// RunDestructors tears down o post-order: every child subtree first (in
// creation order), then o's effects, then o's destructors (last registered
// first). The owner is then marked destroyed. An owner already destroyed is
// skipped, so teardown reached from two paths runs once.
//
// Failures do not stop the traversal; they are collected in the returned
// Teardown together with the asynchronous destructors still running.
func RunDestructors(o *Owner) *Teardown {
	td := newTeardown()
	if o != nil {
		if p := o.parent; p != nil {
			p.removeChild(o)
		}
		o.runDestructors(td)
	}
	td.seal()
	return td
}

func (o *Owner) runDestructors(td *Teardown) {
	if o.destroyed.Swap(true) {
		return
	}

	o.mu.Lock()
	children := o.children
	o.children = nil
	effects := o.effects
	o.effects = nil
	list := o.destructors
	o.destructors = nil
	o.fields = nil
	o.mu.Unlock()

	for _, child := range children {
		child.runDestructors(td)
	}

	for _, e := range effects {
		td.record(e.dispose())
	}

	if list != nil {
		for i := len(*list) - 1; i >= 0; i-- {
			d := (*list)[i]
			if d.async != nil {
				td.spawn(d.async)
				continue
			}
			if err := safeCall(d.sync); err != nil {
				td.record(err)
			}
		}
		destructorLists.Release(list)
	}
}

// Teardown is the result of RunDestructors.
type Teardown struct {
	mu   sync.Mutex
	errs []error

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newTeardown() *Teardown {
	ctx, cancel := context.WithCancel(context.Background())
	return &Teardown{ctx: ctx, cancel: cancel, done: make(chan struct{})}
}

func (t *Teardown) record(err error) {
	if err == nil {
		return
	}
	t.mu.Lock()
	t.errs = append(t.errs, err)
	t.mu.Unlock()
}

func (t *Teardown) spawn(fn AsyncDestructor) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.record(safeAsync(t.ctx, fn))
	}()
}

// seal closes Done once every spawned destructor has returned.
func (t *Teardown) seal() {
	go func() {
		t.wg.Wait()
		t.cancel()
		close(t.done)
	}()
}

// Done is closed when all asynchronous destructors have finished.
func (t *Teardown) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until all destructors finished or ctx ends, and returns the
// aggregated failures. When ctx ends first, the destructors' context is
// canceled and ctx.Err() is returned.
func (t *Teardown) Wait(ctx context.Context) error {
	select {
	case <-t.done:
	case <-ctx.Done():
		t.cancel()
		return ctx.Err()
	}
	return t.Err()
}

// Err returns the failures collected so far, aggregated.
func (t *Teardown) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return lerrors.Aggregate(t.errs)
}

func safeCall(fn Destructor) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = lerrors.New("L012").WithDetail(fmt.Sprint(r))
		}
	}()
	if err := fn(); err != nil {
		return lerrors.New("L010").Wrap(err)
	}
	return nil
}

func safeAsync(ctx context.Context, fn AsyncDestructor) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = lerrors.New("L012").WithDetail(fmt.Sprint(r))
		}
	}()
	if err := fn(ctx); err != nil {
		return lerrors.New("L010").Wrap(err)
	}
	return nil
}

func joinErrors(errs []error) error {
	return lerrors.Aggregate(errs)
}
