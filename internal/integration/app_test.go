package integration_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/metinatakli/cinema-booking/internal/app"
	"github.com/metinatakli/cinema-booking/internal/booking"
	"github.com/metinatakli/cinema-booking/internal/events"
	appvalidator "github.com/metinatakli/cinema-booking/internal/validator"
	"github.com/redis/go-redis/v9"
)

// journalBuffer collects journal lines written by the router goroutine.
type journalBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *journalBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *journalBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return strings.Split(strings.TrimSpace(b.buf.String()), "\n")
}

func (b *journalBuffer) Contains(s string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return strings.Contains(b.buf.String(), s)
}

type TestApp struct {
	App     *app.Application
	Catalog *booking.Catalog
	Ledger  *booking.Ledger
	Redis   *redis.Client
	Journal *journalBuffer

	cfg       app.Config
	logger    *slog.Logger
	transport events.Transport
	router    *message.Router
	publisher *events.Publisher
}

// newTestApp wires the application the way Run does, with events going
// through Redis streams into an in-memory journal.
func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	transport, err := events.NewRedisStreamTransport(redisClient, events.NewLoggerAdapter(logger))
	if err != nil {
		redisClient.Close()
		return nil, err
	}

	router, err := events.NewRouter(logger)
	if err != nil {
		transport.Close()
		redisClient.Close()
		return nil, err
	}

	journal := &journalBuffer{}
	events.NewJournal(journal).Register(router, transport.Subscriber)

	go func() {
		if err := router.Run(context.Background()); err != nil {
			logger.Error("event router stopped", "error", err)
		}
	}()
	<-router.Running()

	testApp := &TestApp{
		Redis:     redisClient,
		Journal:   journal,
		cfg:       cfg,
		logger:    logger,
		transport: transport,
		router:    router,
		publisher: events.NewPublisher(transport.Publisher),
	}

	if err := testApp.Reset(); err != nil {
		testApp.Close()
		return nil, err
	}

	return testApp, nil
}

// Reset starts over with the built-in catalog, an empty ledger and no rate
// limit buckets.
func (a *TestApp) Reset() error {
	catalog, err := booking.NewCatalog(booking.DefaultMovies())
	if err != nil {
		return err
	}

	ledger := booking.NewLedger(catalog, a.logger)

	application, err := app.NewApp(
		a.cfg,
		a.logger,
		a.Redis,
		appvalidator.NewValidator(),
		catalog,
		ledger,
		a.publisher,
	)
	if err != nil {
		return err
	}

	a.App = application
	a.Catalog = catalog
	a.Ledger = ledger

	return a.Redis.Del(context.Background(), a.rateLimitKeys()...).Err()
}

func (a *TestApp) rateLimitKeys() []string {
	keys, err := a.Redis.Keys(context.Background(), a.cfg.RateLimit.Prefix+":*").Result()
	if err != nil || len(keys) == 0 {
		return []string{a.cfg.RateLimit.Prefix}
	}

	return keys
}

func (a *TestApp) Close() {
	_ = a.router.Close()
	_ = a.transport.Close()
	_ = a.Redis.Close()
}
