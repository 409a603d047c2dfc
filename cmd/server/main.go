// @title           Ticketing API
// @version         1.0
// @description     Accounts, events, presentations and tickets with role-based access.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/compunet/ticketing-api/internal/api"
	"github.com/compunet/ticketing-api/internal/api/handler"
	"github.com/compunet/ticketing-api/internal/core/ports"
	"github.com/compunet/ticketing-api/internal/core/service"
	"github.com/compunet/ticketing-api/internal/infrastructure/broker"
	"github.com/compunet/ticketing-api/internal/infrastructure/db/mongo"
	"github.com/compunet/ticketing-api/internal/infrastructure/db/redis"
	"github.com/compunet/ticketing-api/internal/infrastructure/queue"
	"github.com/compunet/ticketing-api/internal/pkg/config"
	"github.com/compunet/ticketing-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Service: "ticketing-api"})
		l.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "ticketing-api",
	})
	if cfg.UsingDevSecret {
		log.Warn().Msg("JWT_SECRET is not set, signing tokens with the development secret")
	}

	// --- MongoDB ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("connect to mongo")
	}
	accountRepo := mongo.NewAccountRepository(db)
	eventRepo := mongo.NewEventRepository(db)
	presentationRepo := mongo.NewPresentationRepository(db)
	ticketRepo := mongo.NewTicketRepository(db)

	for name, repo := range map[string]interface{ EnsureIndexes(context.Context) error }{
		"accounts":      accountRepo,
		"events":        eventRepo,
		"presentations": presentationRepo,
		"tickets":       ticketRepo,
	} {
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("ensure indexes")
		}
	}

	health := map[string]handler.Pinger{
		"mongo": handler.PingFunc(mongo.Ping(mongoClient)),
	}

	// --- Redis (optional) ---
	var (
		redisClient *goredis.Client
		idempotency ports.IdempotencyStore
	)
	if cfg.Redis.Addr != "" {
		redisClient, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, purchases run without idempotency keys")
		} else {
			idempotency = redis.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL)
			health["redis"] = handler.PingFunc(redis.Ping(redisClient))
		}
	}

	// --- Domain events ---
	var publisher ports.EventPublisher = broker.NewLogPublisher(logger.Component("events"))
	var natsPublisher *broker.Publisher
	if cfg.NATS.URL != "" {
		natsPublisher, err = broker.NewPublisher(ctx, cfg.NATS.URL, logger.Component("events"))
		if err != nil {
			log.Fatal().Err(err).Msg("connect to nats")
		}
		publisher = natsPublisher
		health["nats"] = natsPublisher
	}

	dispatchCtx, cancelDispatch := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.EventWorkers, publisher, logger.Component("dispatcher"))
	dispatcher.Start(dispatchCtx)

	// --- Services ---
	creds := service.NewCredentialService(cfg.JWTSecret, cfg.TokenTTL)
	accounts := service.NewAccountService(accountRepo, creds, dispatcher, logger.Component("accounts"))
	events := service.NewEventService(eventRepo, dispatcher, logger.Component("events"))
	presentations := service.NewPresentationService(presentationRepo, eventRepo, dispatcher, logger.Component("presentations"))
	tickets := service.NewTicketService(ticketRepo, presentationRepo, idempotency, dispatcher, logger.Component("tickets"))

	e := api.NewRouter(api.Deps{
		Log:           logger.Component("http"),
		Tokens:        creds,
		Accounts:      accounts,
		Events:        events,
		Presentations: presentations,
		Tickets:       tickets,
		Health:        health,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// Workers drain what is already queued before exiting.
	cancelDispatch()
	dispatcher.Wait()

	if natsPublisher != nil {
		natsPublisher.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
}
