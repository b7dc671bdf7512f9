package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"wisdom-spin/internal/app"
	"wisdom-spin/internal/config"
	"wisdom-spin/internal/infra/memory"
	"wisdom-spin/internal/infra/postgres"
	infraredis "wisdom-spin/internal/infra/redis"
	"wisdom-spin/internal/question"
	transport "wisdom-spin/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := listenPort(portFlag, cfg)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.Duration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	source := newQuestionSource(cfg, redisClient, pool)

	var store app.SessionRepository
	var prefs app.PreferenceStore
	if redisClient != nil {
		store = infraredis.NewSessionStore(redisClient, redisTTL)
		prefs = infraredis.NewPreferenceStore(redisClient)
	} else {
		store = memory.NewSessionStore()
		prefs = memory.NewPreferenceStore()
	}
	service := app.NewGameService(store, prefs, source, gameTiming(cfg))

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           transport.NewRouter(service),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		log.Printf("starting wisdom spin on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newQuestionSource layers the question pipeline: Postgres bank behind a
// cache, the bundled archive, and the remote generator when configured.
func newQuestionSource(cfg config.Config, redisClient *redis.Client, pool *pgxpool.Pool) *question.FallbackChain {
	var loader question.PoolLoader = question.NewStaticBank()
	if pool != nil {
		bankTTL := config.Duration(cfg.Bank.TTL, 10*time.Minute)
		var cached question.PoolLoader
		if redisClient != nil {
			cached = infraredis.NewBankCache(redisClient, postgres.NewBankLoader(pool), bankTTL)
		} else {
			cached = memory.NewBankCache(postgres.NewBankLoader(pool), bankTTL)
		}
		loader = question.ChainLoader{cached, question.NewStaticBank()}
	}
	local := question.NewLocalStrategy(loader, nil)

	if cfg.Remote.Endpoint == "" {
		log.Printf("no question generator configured, serving the local archive")
		return question.NewFallbackChain(local, nil, question.StaticConnectivity(false), nil)
	}

	timeout := config.Duration(cfg.Remote.Timeout, 8*time.Second)
	remote := question.NewRemoteStrategy(question.RemoteConfig{
		Endpoint:      cfg.Remote.Endpoint,
		Protocol:      question.Protocol(cfg.Remote.Protocol),
		APIKey:        cfg.Remote.APIKey,
		Model:         cfg.Remote.Model,
		RatePerMinute: cfg.Remote.RatePerMinute,
	}, &http.Client{Timeout: timeout})

	var online question.Connectivity = question.StaticConnectivity(true)
	if cfg.Remote.ProbeAddr != "" {
		online = &question.DialProbe{Addr: cfg.Remote.ProbeAddr, Timeout: 2 * time.Second}
	} else if probe, err := question.NewDialProbe(cfg.Remote.Endpoint, 2*time.Second); err == nil {
		online = probe
	} else {
		log.Printf("connectivity probe disabled: %v", err)
	}
	return question.NewFallbackChain(local, remote, online, nil)
}

// listenPort prefers the flag or PORT env, then server.port, then 8080.
func listenPort(flag string, cfg config.Config) string {
	if flag != "" {
		return flag
	}
	if cfg.Server.Port != "" {
		return cfg.Server.Port
	}
	return "8080"
}

func gameTiming(cfg config.Config) app.Timing {
	def := app.DefaultTiming()
	return app.Timing{
		SpinDuration: config.Duration(cfg.Game.SpinDuration, def.SpinDuration),
		RevealDelay:  config.Duration(cfg.Game.RevealDelay, def.RevealDelay),
		TickInterval: config.Duration(cfg.Game.TickInterval, def.TickInterval),
		FetchTimeout: config.Duration(cfg.Remote.Timeout, def.FetchTimeout),
		Countdown:    cfg.Game.Countdown,
		FullTurns:    cfg.Game.FullTurns,
	}
}
