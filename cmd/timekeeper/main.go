package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CAFxX/httpcompression"
	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/getsentry/timekeeper/internal/config"
	"github.com/getsentry/timekeeper/internal/logutil"
	"github.com/getsentry/timekeeper/internal/report"
	"github.com/getsentry/timekeeper/internal/timekeeper"
)

type environment struct {
	config config.Config

	profiler *timekeeper.Profiler
	session  string
}

var release string

func newEnvironment(c config.Config) *environment {
	return &environment{
		config: c,
		profiler: timekeeper.New(timekeeper.Options{
			FrameRateSamples: c.FrameRateSamples,
		}),
		session: report.NewSession(),
	}
}

func (e *environment) newRouter() (*httprouter.Router, error) {
	compress, err := httpcompression.DefaultAdapter()
	if err != nil {
		return nil, err
	}

	routes := []struct {
		method  string
		path    string
		handler http.HandlerFunc
	}{
		{http.MethodGet, "/health", e.getHealth},
		{http.MethodGet, "/stats", e.getStats},
		{http.MethodGet, "/stats/:thread_id", e.getThreadStats},
		{http.MethodGet, "/framerate", e.getFrameRate},
		{http.MethodPost, "/reset", e.postReset},
	}

	router := httprouter.New()

	for _, route := range routes {
		router.Handler(route.method, route.path, compress(route.handler))
	}

	return router, nil
}

// run serves the statistics of a simulated workload until ctx is done or
// one of its parts fails.
func (e *environment) run(ctx context.Context, stdout io.Writer) error {
	router, err := e.newRouter()
	if err != nil {
		return err
	}
	server := http.Server{
		Addr:    ":" + e.config.Port,
		Handler: sentryhttp.New(sentryhttp.Options{}).Handle(router),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return e.profiler.Run(ctx, e.config.ConsumeInterval)
	})
	g.Go(func() error {
		return simulate(ctx, e.profiler, e.config.Simulation)
	})
	if e.config.ReportInterval > 0 {
		g.Go(func() error {
			return e.printReports(ctx, stdout, e.config.ReportInterval)
		})
	}
	g.Go(func() error {
		<-ctx.Done()

		cctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return server.Shutdown(cctx)
	})
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Str("session", e.session).Msg("serving statistics")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (e *environment) printReports(ctx context.Context, w io.Writer, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := report.Render(w, e.snapshot(true), e.config.Display); err != nil {
				return err
			}
		}
	}
}

func (e *environment) snapshot(withPlot bool) report.Report {
	r := report.Report{
		Session:   e.session,
		Timestamp: time.Now().UTC(),
		Threads:   e.profiler.Stats(),
		FrameRate: e.profiler.FrameRate(),
	}
	if withPlot {
		plot := e.profiler.FramePlot()
		r.Plot = &plot
	}
	return r
}

func main() {
	c, err := config.Load(os.Getenv("TIMEKEEPER_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Str("usage", config.Usage()).Msg("error loading configuration")
	}

	if err := logutil.ConfigureLogger(c.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("error configuring logger")
	}

	err = sentry.Init(sentry.ClientOptions{
		Dsn:              c.SentryDSN,
		EnableTracing:    true,
		Environment:      c.Environment,
		Release:          release,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("can't initialize sentry")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := newEnvironment(c)
	if err := env.run(ctx, os.Stdout); err != nil {
		sentry.CaptureException(err)
		log.Err(err).Msg("timekeeper stopped")
	}

	sentry.Flush(5 * time.Second)
}
