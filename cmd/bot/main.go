package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sa-bots/workthread/clock"
	"github.com/sa-bots/workthread/config"
	"github.com/sa-bots/workthread/discord"
	"github.com/sa-bots/workthread/logger"
	"github.com/sa-bots/workthread/store"
)

const (
	defaultGuildConfigPath = "config.json"
	defaultAppConfigPath   = "config/app.yaml"
	defaultTokenPath       = "token.txt"
)

func main() {
	params, err := build()
	if err != nil {
		log.Fatal(err)
	}

	if err = run(params); err != nil {
		log.Fatal(err)
	}
}

func build() (runParams, error) {
	// .env is optional; real deployments pass variables directly.
	_ = godotenv.Load()

	cfg, err := config.LoadWithDefaults(
		envOr("BOT_CONFIG", defaultGuildConfigPath),
		envOr("BOT_APP_CONFIG", defaultAppConfigPath),
	)
	if err != nil {
		return runParams{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Guild.Validate(); err != nil {
		return runParams{}, err
	}

	token, err := config.ResolveToken(envOr("BOT_TOKEN_FILE", defaultTokenPath))
	if err != nil {
		return runParams{}, err
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return runParams{}, fmt.Errorf("initialize logger: %w", err)
	}

	st := store.NewSQLiteStore(store.Params{
		Path:   cfg.Store.Path,
		Logger: appLogger,
	})

	client, err := discord.New(discord.Params{
		Config: discord.Config{
			Token:      token,
			GuildID:    cfg.Guild.ServerID,
			CategoryID: cfg.Guild.WorkThreadCategoryID,
			StaffRole:  cfg.Guild.SARoleID,
			Committees: cfg.Guild.Commitees,
			Places:     cfg.Guild.Places,
			EventTypes: cfg.Guild.EventTypes,
		},
		Store:  st,
		Clock:  clock.System(),
		Logger: appLogger,
	})
	if err != nil {
		return runParams{}, err
	}

	return runParams{
		Config: cfg,
		Logger: appLogger,
		Store:  st,
		Client: client,
	}, nil
}

type runParams struct {
	Config *config.AppConfig
	Logger logger.Logger
	Store  *store.SQLiteStore
	Client discord.Discord
}

// run starts all components and serves until shutdown.
func run(p runParams) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer p.Logger.Sync()

	if err := p.Store.Open(ctx); err != nil {
		return fmt.Errorf("open work-thread registry: %w", err)
	}

	if err := p.Client.Start(ctx); err != nil {
		return fmt.Errorf("start discord client: %w", err)
	}
	p.Logger.InfoW("bot is running", "store", p.Config.Store.Path)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	if err := p.Client.Stop(); err != nil {
		p.Logger.ErrorW("stop discord client", "error", err)
	}
	cancel()

	return p.Store.Close()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
