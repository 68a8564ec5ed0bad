package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/booking"
	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/metinatakli/cinema-booking/internal/events"
	appmiddleware "github.com/metinatakli/cinema-booking/internal/middleware"
	appvalidator "github.com/metinatakli/cinema-booking/internal/validator"
	"github.com/metinatakli/cinema-booking/internal/vcs"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

const serviceName = "cinema-booking-api"

var (
	version = vcs.Version()
)

type Application struct {
	config    Config
	logger    *slog.Logger
	redis     redis.UniversalClient
	validator *validator.Validate

	catalog domain.CatalogReader
	ledger  domain.Ledger
	events  domain.TicketEvents
	metrics *bookingMetrics
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	redisClient redis.UniversalClient,
	validator *validator.Validate,
	catalog domain.CatalogReader,
	ledger domain.Ledger,
	ticketEvents domain.TicketEvents,
) (*Application, error) {
	metrics, err := newBookingMetrics(otel.Meter(serviceName))
	if err != nil {
		return nil, err
	}

	return &Application{
		config:    cfg,
		logger:    logger,
		redis:     redisClient,
		validator: validator,
		catalog:   catalog,
		ledger:    ledger,
		events:    ticketEvents,
		metrics:   metrics,
	}, nil
}

func Run() error {
	// a missing .env file is fine, flags and the environment still apply
	_ = godotenv.Load()

	cfg, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		return err
	}

	if cfg.DisplayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	shutdownTelemetry, err := InitTelemetry(cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		logger = slog.New(NewMultiHandler(logger.Handler(), otelslog.NewHandler(serviceName)))
	}

	catalog, err := newCatalog(cfg)
	if err != nil {
		return err
	}

	ledger := booking.NewLedger(catalog, logger)

	var (
		redisClient redis.UniversalClient
		transport   events.Transport
	)

	if cfg.Redis.URL != "" {
		rdb, err := NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer rdb.Close()

		redisClient = rdb

		transport, err = events.NewRedisStreamTransport(rdb, events.NewLoggerAdapter(logger))
		if err != nil {
			return err
		}
	} else {
		transport = events.NewInProcessTransport(events.NewLoggerAdapter(logger))
	}
	defer transport.Close()

	journalOut, closeJournal, err := openJournal(cfg.JournalFile)
	if err != nil {
		return err
	}
	defer closeJournal()

	router, err := events.NewRouter(logger)
	if err != nil {
		return err
	}
	events.NewJournal(journalOut).Register(router, transport.Subscriber)

	app, err := NewApp(
		cfg,
		logger,
		redisClient,
		appvalidator.NewValidator(),
		catalog,
		ledger,
		events.NewPublisher(transport.Publisher),
	)
	if err != nil {
		return err
	}

	return app.serve(router)
}

func newCatalog(cfg Config) (*booking.Catalog, error) {
	movies := booking.DefaultMovies()

	if cfg.CatalogFile != "" {
		var err error

		movies, err = booking.LoadCatalogFile(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
	}

	return booking.NewCatalog(movies)
}

func openJournal(path string) (io.Writer, func() error, error) {
	if path == "" {
		return io.Discard, func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open journal file: %w", err)
	}

	return f, f.Close, nil
}

// NewRedisClient accepts either a redis:// URL or a plain host:port address.
func NewRedisClient(cfg Config) (*redis.Client, error) {
	opts := &redis.Options{Addr: cfg.Redis.URL}

	if strings.Contains(cfg.Redis.URL, "://") {
		var err error

		opts, err = redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
	}

	opts.MaxIdleConns = cfg.Redis.MaxIdleConns
	opts.MaxActiveConns = cfg.Redis.MaxOpenConns
	opts.ConnMaxIdleTime = cfg.Redis.MaxIdleTime

	rdb := redis.NewClient(opts)

	err := errors.Join(redisotel.InstrumentTracing(rdb), redisotel.InstrumentMetrics(rdb))
	if err != nil {
		rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func (app *Application) serve(router *message.Router) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		return router.Run(ctx)
	})

	g.Go(func() error {
		select {
		case <-router.Running():
		case <-ctx.Done():
			return nil
		}

		app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case s := <-quit:
			app.logger.Info("shutting down server", "signal", s.String())
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return errors.Join(srv.Shutdown(shutdownCtx), router.Close())
	})

	err := g.Wait()
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(app.requestLogger)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: app.config.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Location", "Retry-After", "X-Request-Id"},
		MaxAge:         300,
	}).Handler)
	r.Use(appmiddleware.RateLimit(app.config.RateLimit, app.redis, app.logger))

	r.Get("/openapi.json", app.getOpenAPI)

	return api.HandlerWithOptions(app, api.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: app.invalidParamResponse,
	})
}
