package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/lumen/internal/demo"
	"github.com/vango-dev/lumen/pkg/app"
	"github.com/vango-dev/lumen/pkg/backend/dom"
	"github.com/vango-dev/lumen/pkg/backend/remote"
	"github.com/vango-dev/lumen/pkg/lumen"
	"github.com/vango-dev/lumen/pkg/pool"
	"github.com/vango-dev/lumen/pkg/ssr"
)

func serveCmd(g *globals) *cobra.Command {
	var (
		addr   string
		tick   time.Duration
		static string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo pages",
		Long: `Serve every demo page with server-side rendering.

Besides the pages the server exposes:
  /metrics  prometheus metrics (pools, mounts, render durations)
  /live     WebSocket stream of a live counter's backend operations
  /healthz  liveness probe
  /static/  files from --static, when set

Examples:
  lumen serve
  lumen serve --addr :3000 --tick 500ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.setup()
			if err != nil {
				return err
			}
			defer e.close()
			if addr == "" {
				addr = e.cfg.Server.Addr
			}
			return runServe(cmd.Context(), e, addr, static, tick)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from lumen.yaml)")
	cmd.Flags().DurationVar(&tick, "tick", time.Second, "Live counter interval")
	cmd.Flags().StringVar(&static, "static", "", "Directory served under /static/")

	return cmd
}

func runServe(ctx context.Context, e *env, addr, static string, tick time.Duration) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log := e.logger.Logger

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		pool.NewCollector("lumen"),
	)
	metrics := app.NewMetrics("lumen", reg)

	live, err := newLiveCounter(ctx, e, metrics)
	if err != nil {
		return err
	}
	defer live.close()

	opts := []ssr.HandlerOption{
		ssr.WithPage(ssr.Page{LiveURL: "/live"}),
		ssr.WithGatherer(reg),
		ssr.WithRequestMetrics(ssr.NewRequestMetrics("lumen", reg)),
		ssr.WithLive(live.hub),
		ssr.WithRenderOptions(ssr.WithLogger(log), ssr.WithMetrics(metrics)),
		ssr.WithHandlerLogger(log),
	}
	if static != "" {
		opts = append(opts, ssr.WithStatic(ssr.Static{Prefix: "/static", FS: os.DirFS(static), Immutable: true}))
	}
	handler := ssr.NewHandler(demo.Routes(), opts...)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go live.run(ctx, tick)
	go shrinkPools(ctx, 30*time.Second)

	errCh := make(chan error, 1)
	go func() {
		success("Serving on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// shrinkPools runs pool maintenance while the server is idle between
// renders.
func shrinkPools(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			pool.MaybeShrinkAll()
		}
	}
}

// liveCounter is a counter mounted on a recording backend whose operations
// are streamed to /live clients.
type liveCounter struct {
	app   *app.App
	rb    *remote.Backend
	inner *dom.Backend
	hub   *remote.Hub
	count *lumen.Cell[int]
}

func newLiveCounter(ctx context.Context, e *env, metrics *app.Metrics) (*liveCounter, error) {
	inner := dom.New()
	rb := remote.New(inner)
	root := rb.Element("div")

	l := &liveCounter{rb: rb, inner: inner, count: lumen.NewCell(0)}
	l.app = app.New(rb, root,
		app.WithLogger(e.logger.Logger),
		app.WithMetrics(metrics),
	).Handle("/", demo.Counter(l.count))

	l.hub = remote.NewHub(
		remote.WithLogger(e.logger.Logger),
		remote.WithSnapshot(l.snapshot),
	)

	if _, err := l.app.Mount(ctx, "/", false); err != nil {
		return nil, err
	}
	rb.Drain()
	return l, nil
}

func (l *liveCounter) snapshot() remote.Message {
	var buf bytes.Buffer
	_ = app.DefaultQueue.Do(context.Background(), func(context.Context) error {
		l.rb.Flush(l.hub)
		return l.inner.Serialize(&buf, l.app.Root())
	})
	return remote.Message{Type: remote.MessageSnapshot, HTML: buf.String()}
}

func (l *liveCounter) run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			err := l.app.Update(ctx, func() {
				l.count.Update(func(n int) int { return n + 1 })
			})
			if err != nil {
				return
			}
			_ = app.DefaultQueue.Do(ctx, func(context.Context) error {
				l.rb.Flush(l.hub)
				return nil
			})
		}
	}
}

func (l *liveCounter) close() {
	_ = l.app.Unmount(context.Background())
	l.hub.Close()
}
