package ssr

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/backend/dom"
	"github.com/vango-dev/lumen/pkg/render"
)

// Route is a page served and exported by path.
type Route struct {
	Path      string
	Title     string
	Component render.Component

	// Backend overrides the handler's backend factory for this route.
	Backend func() backend.Backend
}

func (r Route) backend(def func() backend.Backend) backend.Backend {
	if r.Backend != nil {
		return r.Backend()
	}
	return def()
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithPage sets the document shell. Route titles override its Title.
func WithPage(p Page) HandlerOption {
	return func(h *Handler) { h.page = p }
}

// WithBackend sets the factory for per-request backends. The default is
// dom.New.
func WithBackend(fn func() backend.Backend) HandlerOption {
	return func(h *Handler) {
		if fn != nil {
			h.newBackend = fn
		}
	}
}

// WithLive mounts a live op stream at /live.
func WithLive(live http.Handler) HandlerOption {
	return func(h *Handler) { h.live = live }
}

// WithGatherer serves g at /metrics.
func WithGatherer(g prometheus.Gatherer) HandlerOption {
	return func(h *Handler) { h.gatherer = g }
}

// WithRenderOptions passes opts to every render.
func WithRenderOptions(opts ...Option) HandlerOption {
	return func(h *Handler) { h.renderOpts = append(h.renderOpts, opts...) }
}

// WithHandlerLogger sets the logger. The default is slog.Default().
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// Handler serves server-rendered pages.
type Handler struct {
	router     chi.Router
	routes     []Route
	page       Page
	newBackend func() backend.Backend
	live       http.Handler
	static     *Static
	gatherer   prometheus.Gatherer
	renderOpts []Option
	logger     *slog.Logger

	requestMetrics *RequestMetrics
	tracer         trace.Tracer
}

// NewHandler builds the router for routes.
func NewHandler(routes []Route, opts ...HandlerOption) *Handler {
	h := &Handler{
		routes:     routes,
		newBackend: func() backend.Backend { return dom.New() },
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(h.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
	if h.live != nil {
		r.Handle("/live", h.live)
	}
	if h.static != nil {
		prefix := h.static.prefix()
		r.Method(http.MethodGet, prefix+"/*", h.static)
		r.Method(http.MethodHead, prefix+"/*", h.static)
	}
	for _, route := range routes {
		r.Get(route.Path, h.servePage(route))
	}

	h.router = r
	return h
}

// Routes returns the pages the handler serves.
func (h *Handler) Routes() []Route {
	return h.routes
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) servePage(route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)

		var buf bytes.Buffer
		if err := h.renderPage(r, &buf, route); err != nil {
			h.logger.Error("render failed", "request_id", id, "path", route.Path, "error", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
		h.logger.Debug("rendered", "request_id", id, "path", route.Path, "bytes", buf.Len())
	}
}

func (h *Handler) renderPage(r *http.Request, buf *bytes.Buffer, route Route) error {
	body, err := RenderToString(r.Context(), route.backend(h.newBackend), route.Component, h.renderOpts...)
	if err != nil {
		return err
	}
	page := h.page
	if route.Title != "" {
		page.Title = route.Title
	}
	return WritePage(buf, page, body)
}
