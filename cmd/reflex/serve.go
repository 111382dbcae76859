package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/vango-dev/reflex/internal/counter"
	"github.com/vango-dev/reflex/pkg/devtools"
	"github.com/vango-dev/reflex/pkg/middleware"
	"github.com/vango-dev/reflex/pkg/producer"
	"github.com/vango-dev/reflex/pkg/runtime"
)

const shutdownTimeout = 5 * time.Second

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>reflex counter</title></head>
<body>{{.}}</body>
</html>
`))

type serveOptions struct {
	addr     string
	path     string
	snapshot string
}

func serveCmd(flags *globalFlags) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the counter demo with devtools",
		Long: `Serve the counter component over HTTP.

Routes:
  GET  /                      the rendered counter
  POST /events/{id}/{event}   dispatch a DOM event to the counter
  GET  /metrics               Prometheus metrics
  *    {devtools path}/...    producer inspector and websocket stream

Examples:
  reflex serve
  reflex serve --addr=0.0.0.0:7070 --path=/debug
  reflex serve --snapshot=state.toml --log-level=debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, flags, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "Address to listen on (default from reflex.json)")
	cmd.Flags().StringVar(&opts.path, "path", "", "URL prefix for devtools (default from reflex.json)")
	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "Snapshot file or s3://bucket/key to hydrate from (default from reflex.json)")

	return cmd
}

// app is the running counter with its HTTP surface.
type app struct {
	store    *producer.Producer[counter.State]
	root     *runtime.Root
	tools    *devtools.Server
	registry *prometheus.Registry
	logger   *slog.Logger
}

func newApp(logger *slog.Logger, initial any) (*app, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(middleware.WithRegistry(registry))

	store := counter.NewProducer(logger,
		producer.WithMiddleware[counter.State](
			middleware.OpenTelemetry(middleware.WithTracerName("github.com/vango-dev/reflex/cmd/reflex")),
			metrics.Middleware(),
			middleware.Logger(logger),
		),
	)
	metrics.TrackListeners(store.Name(), store.ListenerCount)

	root, err := runtime.Mount(counter.App(store, initial),
		runtime.WithLogger(logger),
		runtime.WithOnCommit(func(*runtime.Root) {
			logger.Debug("counter committed", "count", store.GetState().Count)
		}),
	)
	if err != nil {
		store.Destroy()
		return nil, err
	}

	return &app{
		store:    store,
		root:     root,
		tools:    devtools.New(devtools.Inspect(store), devtools.WithLogger(logger)),
		registry: registry,
		logger:   logger,
	}, nil
}

func (a *app) routes(devtoolsPath string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/", a.handlePage)
	r.Post("/events/{id}/{event}", a.handleEvent)
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	r.Mount(devtoolsPath, a.tools.Handler())
	return r
}

func (a *app) handlePage(w http.ResponseWriter, _ *http.Request) {
	html, err := a.root.HTML()
	if err != nil {
		a.fail(w, "render page", err, http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, template.HTML(html)); err != nil {
		a.fail(w, "execute page template", err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (a *app) handleEvent(w http.ResponseWriter, r *http.Request) {
	if err := a.root.Dispatch(chi.URLParam(r, "id"), chi.URLParam(r, "event")); err != nil {
		a.fail(w, "dispatch event", err, eventStatus(err))
		return
	}
	a.handlePage(w, r)
}

// eventStatus maps a Dispatch error to a status code. Only a missing
// element or handler is the client's fault; a failed flush is ours.
func eventStatus(err error) int {
	switch {
	case errors.Is(err, runtime.ErrNoElement), errors.Is(err, runtime.ErrNoHandler):
		return http.StatusNotFound
	case errors.Is(err, runtime.ErrUnmounted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (a *app) fail(w http.ResponseWriter, msg string, err error, status int) {
	if status >= http.StatusInternalServerError {
		a.logger.Error(msg, "error", err)
	}
	http.Error(w, err.Error(), status)
}

func (a *app) close() {
	a.tools.Close()
	a.root.Unmount()
	a.store.Destroy()
}

func runServe(ctx context.Context, flags *globalFlags, opts serveOptions) error {
	cfg, logger, err := flags.load()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Devtools.Addr = opts.addr
	}
	if opts.path != "" {
		cfg.Devtools.Path = opts.path
	}

	initial, err := loadInitial(ctx, cfg, opts.snapshot)
	if err != nil {
		return err
	}

	a, err := newApp(logger, initial)
	if err != nil {
		return err
	}
	defer a.close()

	go func() {
		if err := a.root.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("render loop stopped", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Devtools.Addr,
		Handler:           a.routes(cfg.Devtools.Path),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "address", cfg.Devtools.Addr, "devtools", cfg.Devtools.Path)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.tools.Close()
		return srv.Shutdown(shutdownCtx)
	}
}
