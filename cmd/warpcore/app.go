package main

import (
	log "log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/iaconlabs/warpcore"
	"github.com/iaconlabs/warpcore/adapter/chiadapter"
	"github.com/iaconlabs/warpcore/adapter/echoadapter"
	"github.com/iaconlabs/warpcore/adapter/fiberadapter"
	"github.com/iaconlabs/warpcore/adapter/ginadapter"
	"github.com/iaconlabs/warpcore/adapter/muxadapter"
	"github.com/iaconlabs/warpcore/dispatch"
	"github.com/iaconlabs/warpcore/internal/demo"
	"github.com/iaconlabs/warpcore/middleware"
	"github.com/iaconlabs/warpcore/pipeline"
	"github.com/iaconlabs/warpcore/router"
)

// app is the assembled server: the dispatch core plus the side endpoints.
type app struct {
	core     *warpcore.Warpcore
	handler  http.Handler
	registry *prometheus.Registry
}

func newRegistry(name string) router.Registry {
	if name == "mux" {
		return muxadapter.New()
	}
	return chiadapter.New()
}

func newApp(cfg Config, logger *log.Logger) (*app, error) {
	core := warpcore.New(newRegistry(cfg.Router),
		warpcore.WithLogger(logger),
		warpcore.WithMaxBodyBytes(cfg.MaxBodyBytes),
		warpcore.WithPipelineOptions(pipeline.WithDispatcher(dispatch.NewPool(cfg.Workers))),
	)
	if err := core.Register(demo.NewNotes(demo.NewStore(), cfg.BasePath)); err != nil {
		return nil, err
	}

	a := &app{core: core}

	// Filters added later run further out, so metrics also count requests
	// rejected by the rate limiter.
	if cfg.RateLimit.RPS > 0 {
		core.Use(middleware.All(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst)))
	}
	if cfg.Tracing.Enabled {
		core.Use(middleware.All(middleware.OpenTelemetry(
			middleware.WithTracerName(cfg.Tracing.TracerName),
			middleware.WithTracerProvider(otel.GetTracerProvider()),
		)))
	}
	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		core.Use(middleware.All(middleware.Prometheus(
			middleware.WithRegistry(a.registry),
			middleware.WithNamespace(cfg.Metrics.Namespace),
		)))
	}

	a.handler = a.mount(cfg)
	return a, nil
}

func (a *app) mount(cfg Config) http.Handler {
	switch cfg.Engine {
	case "gin":
		engine := ginadapter.New(a.core)
		if a.registry != nil {
			engine.GET(cfg.Metrics.Path, ginadapter.Handler(a.metricsHandler()))
		}
		return engine
	case "echo":
		e := echoadapter.New(a.core)
		if a.registry != nil {
			e.GET(cfg.Metrics.Path, echoadapter.Handler(a.metricsHandler()))
		}
		return e
	case "fiber":
		return fiberadapter.HTTP(fiberadapter.New(a.core, func(app *fiber.App) {
			if a.registry != nil {
				app.Get(cfg.Metrics.Path, fiberadapter.Handler(a.metricsHandler()))
			}
		}))
	}

	mux := http.NewServeMux()
	if a.registry != nil {
		mux.Handle("GET "+cfg.Metrics.Path, a.metricsHandler())
	}
	mux.Handle("/", a.core)
	return mux
}

func (a *app) metricsHandler() http.Handler {
	return promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry})
}
