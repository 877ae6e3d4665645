package app

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	lerrors "github.com/vango-dev/lumen/internal/errors"
	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/hydrate"
	"github.com/vango-dev/lumen/pkg/lumen"
	"github.com/vango-dev/lumen/pkg/render"
)

// TracerName is the otel tracer used for mount pipelines.
const TracerName = "lumen"

var (
	ErrRouteNotFound  = lerrors.New("L070")
	ErrAlreadyMounted = lerrors.New("L071")
	ErrNotMounted     = lerrors.New("L072")
)

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithQueue sets the render queue. The default is DefaultQueue.
func WithQueue(q *Queue) Option {
	return func(a *App) {
		if q != nil {
			a.queue = q
		}
	}
}

// WithMetrics records mounts, unmounts and mismatches in m.
func WithMetrics(m *Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithTracer overrides the global otel tracer.
func WithTracer(t trace.Tracer) Option {
	return func(a *App) {
		if t != nil {
			a.tracer = t
		}
	}
}

// App is a render root: one backend node driven by a route table.
type App struct {
	id      string
	b       backend.Backend
	root    backend.Node
	logger  *slog.Logger
	queue   *Queue
	metrics *Metrics
	tracer  trace.Tracer

	mu      sync.Mutex
	routes  map[string]render.Component
	current *mounted
}

type mounted struct {
	path   string
	owner  *lumen.Owner
	nodes  render.Nodes
	report *hydrate.Report
}

// New creates an App rendering into root through b.
func New(b backend.Backend, root backend.Node, opts ...Option) *App {
	a := &App{
		id:     uuid.NewString(),
		b:      b,
		root:   root,
		logger: slog.Default(),
		queue:  DefaultQueue,
		tracer: otel.Tracer(TracerName),
		routes: make(map[string]render.Component),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("root_id", a.id)
	return a
}

// ID returns the root id.
func (a *App) ID() string { return a.id }

// Backend returns the backend the App renders through.
func (a *App) Backend() backend.Backend { return a.b }

// Root returns the backend root node.
func (a *App) Root() backend.Node { return a.root }

// Handle registers comp for path. It panics on a path CleanPath rejects,
// like http.ServeMux does for bad patterns.
func (a *App) Handle(path string, comp render.Component) *App {
	clean, err := CleanPath(path)
	if err != nil {
		panic(err)
	}
	a.mu.Lock()
	a.routes[clean] = comp
	a.mu.Unlock()
	return a
}

// Routes returns the registered paths in order.
func (a *App) Routes() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.routes))
	for p := range a.routes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the component registered for path.
func (a *App) Lookup(path string) (render.Component, string, error) {
	clean, err := CleanPath(path)
	if err != nil {
		return nil, "", err
	}
	a.mu.Lock()
	comp, ok := a.routes[clean]
	a.mu.Unlock()
	if !ok {
		return nil, clean, lerrors.New("L070").WithDetail(clean)
	}
	return comp, clean, nil
}

// Mounted returns the mounted path, or "" when nothing is mounted.
func (a *App) Mounted() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return ""
	}
	return a.current.path
}

// Owner returns the root owner of the mounted tree, or nil.
func (a *App) Owner() *lumen.Owner {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return nil
	}
	return a.current.owner
}

// Mount constructs the component registered for path against the root.
//
// With ssr false the root is emptied and the tree is built from scratch.
// With ssr true the existing children are claimed in order; mismatches
// are repaired in place, logged and returned in the report, never as an
// error. The returned error covers an unknown route, an App that is
// already mounted, and a backend that cannot walk its nodes.
func (a *App) Mount(ctx context.Context, path string, ssr bool) (*hydrate.Report, error) {
	comp, clean, err := a.Lookup(path)
	if err != nil {
		return nil, err
	}

	var report *hydrate.Report
	err = a.queue.Do(ctx, func(ctx context.Context) error {
		a.mu.Lock()
		busy := a.current != nil
		a.mu.Unlock()
		if busy {
			return lerrors.New("L071").WithDetail(a.id)
		}

		start := time.Now()
		ctx, span := a.tracer.Start(ctx, "lumen.mount",
			trace.WithAttributes(
				attribute.String("lumen.root_id", a.id),
				attribute.String("lumen.path", clean),
				attribute.Bool("lumen.ssr", ssr),
			))
		defer span.End()

		owner := lumen.NewTaggedOwner(nil, "root:"+clean)
		m := &mounted{path: clean, owner: owner}

		if ssr {
			report = hydrate.NewReport(a.logger)
			nodes, err := a.rehydrate(ctx, owner, comp, report)
			if err != nil {
				lumen.RunDestructors(owner)
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
			m.nodes, m.report = nodes, report
			span.SetAttributes(attribute.Int("lumen.mismatches", report.Count()))
		} else {
			a.b.ClearChildren(a.root)
			m.nodes = render.Mount(a.b, a.root, owner, comp)
		}

		a.mu.Lock()
		a.current = m
		a.mu.Unlock()

		mismatches := 0
		if report != nil {
			mismatches = report.Count()
		}
		a.metrics.mounted(ssr, mismatches)
		a.metrics.Observe("mount", start)
		a.logger.Debug("mounted", "path", clean, "ssr", ssr, "mismatches", mismatches)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (a *App) rehydrate(ctx context.Context, owner *lumen.Owner, comp render.Component, report *hydrate.Report) (render.Nodes, error) {
	_, span := a.tracer.Start(ctx, "lumen.rehydrate")
	defer span.End()

	nodes, err := render.Hydrate(a.b, a.root, owner, comp, report)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("lumen.claimed", report.Claimed()),
		attribute.Int("lumen.created", report.Created()),
		attribute.Int("lumen.mismatches", report.Count()),
	)
	if report.Count() > 0 {
		span.AddEvent("mismatches recovered")
	}
	return nodes, nil
}

// Unmount tears down the mounted tree: every destructor runs and async
// destructors are awaited until ctx ends. The rendered nodes stay attached
// until then, so an exit transition can still run on them, and are
// destroyed afterwards. Destructor failures are returned together after the
// whole traversal.
func (a *App) Unmount(ctx context.Context) error {
	return a.queue.Do(ctx, func(ctx context.Context) error {
		a.mu.Lock()
		m := a.current
		a.current = nil
		a.mu.Unlock()
		if m == nil {
			return lerrors.New("L072").WithDetail(a.id)
		}

		start := time.Now()
		ctx, span := a.tracer.Start(ctx, "lumen.unmount",
			trace.WithAttributes(
				attribute.String("lumen.root_id", a.id),
				attribute.String("lumen.path", m.path),
			))
		defer span.End()

		err := lumen.RunDestructors(m.owner).Wait(ctx)
		render.DestroyAll(a.b, m.nodes)

		a.metrics.unmounted(err)
		a.metrics.Observe("unmount", start)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			a.logger.Error("unmount failed", "path", m.path, "error", err)
			return err
		}
		a.logger.Debug("unmounted", "path", m.path)
		return nil
	})
}

// Navigate unmounts the current tree, if any, and mounts path in create
// mode.
func (a *App) Navigate(ctx context.Context, path string) error {
	if _, _, err := a.Lookup(path); err != nil {
		return err
	}
	if a.Mounted() != "" {
		if err := a.Unmount(ctx); err != nil {
			return err
		}
	}
	_, err := a.Mount(ctx, path, false)
	return err
}

// Update runs fn on the render queue, after every pipeline submitted
// before it. Writes to shared cells from other goroutines go through
// Update so they never interleave with a render.
func (a *App) Update(ctx context.Context, fn func()) error {
	return a.queue.Do(ctx, func(context.Context) error {
		lumen.Batch(fn)
		return nil
	})
}
