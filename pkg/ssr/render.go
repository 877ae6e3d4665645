package ssr

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	lerrors "github.com/vango-dev/lumen/internal/errors"
	"github.com/vango-dev/lumen/pkg/app"
	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/lumen"
	"github.com/vango-dev/lumen/pkg/render"
)

// ErrNotSerializable is returned for backends without a Serializer.
var ErrNotSerializable = lerrors.New("L061")

// Option configures a render.
type Option func(*options)

type options struct {
	queue   *app.Queue
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics *app.Metrics
}

// WithQueue runs renders on q instead of app.DefaultQueue.
func WithQueue(q *app.Queue) Option {
	return func(o *options) {
		if q != nil {
			o.queue = q
		}
	}
}

// WithTracer overrides the global otel tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records render durations in m.
func WithMetrics(m *app.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func newOptions(opts []Option) options {
	o := options{
		queue:  app.DefaultQueue,
		tracer: otel.Tracer(app.TracerName),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// RenderToString renders comp with b and returns the serialized markup.
func RenderToString(ctx context.Context, b backend.Backend, comp render.Component, opts ...Option) (string, error) {
	var sb strings.Builder
	if err := Render(ctx, &sb, b, comp, opts...); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Render renders comp with b into w. The tree is built in create mode
// under a throwaway owner that is destroyed once the markup is written;
// destructor failures are returned alongside any write error.
func Render(ctx context.Context, w io.Writer, b backend.Backend, comp render.Component, opts ...Option) error {
	s, ok := b.(backend.Serializer)
	if !ok {
		return lerrors.New("L061").WithDetailf("%T", b)
	}
	o := newOptions(opts)

	return o.queue.Do(ctx, func(ctx context.Context) error {
		start := time.Now()
		ctx, span := o.tracer.Start(ctx, "lumen.ssr.render")
		defer span.End()

		owner := lumen.NewTaggedOwner(nil, "ssr")
		root := b.Fragment()
		nodes := render.Mount(b, root, owner, comp)
		span.SetAttributes(attribute.Int("lumen.nodes", len(render.Flatten(nodes))))

		werr := s.Serialize(w, root)
		terr := lumen.RunDestructors(owner).Wait(ctx)
		b.Destroy(root)
		o.metrics.Observe("ssr", start)

		if err := errors.Join(werr, terr); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		return nil
	})
}
