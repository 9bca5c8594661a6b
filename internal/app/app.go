// Package app builds the bot's object graph from configuration. Both the HTTP
// server and the admin CLI start from here.
package app

import (
	"context"
	"fmt"

	"github.com/jrsteele09/fitbit-discord-bot/commands"
	"github.com/jrsteele09/fitbit-discord-bot/discord"
	"github.com/jrsteele09/fitbit-discord-bot/fitbit"
	"github.com/jrsteele09/fitbit-discord-bot/internal/config"
	"github.com/jrsteele09/fitbit-discord-bot/linking"
	"github.com/jrsteele09/fitbit-discord-bot/storage"
	"github.com/jrsteele09/fitbit-discord-bot/storage/memstore"
	"github.com/jrsteele09/fitbit-discord-bot/storage/redisstore"
	"github.com/rs/zerolog/log"
)

type App struct {
	Config       config.Config
	Tokens       *storage.Tokens
	Discord      *discord.Client
	Fitbit       *fitbit.Client
	Linking      *linking.Service
	CommandCache *commands.Cache
	Commands     *commands.Registry

	closeStore func() error
}

// New wires storage, the provider clients, the linking service and the slash
// commands. Close releases the storage connection.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	store, closeStore, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	tokens := storage.NewTokens(store)

	discordClient := discord.New(discord.Config{
		ClientID:     cfg.GetDiscordClientID(),
		ClientSecret: cfg.GetDiscordClientSecret(),
		RedirectURI:  cfg.GetDiscordRedirectURI(),
		BotToken:     cfg.GetDiscordToken(),
	}, tokens)

	fitbitClient := fitbit.New(fitbit.Config{
		ClientID:     cfg.GetFitbitClientID(),
		ClientSecret: cfg.GetFitbitClientSecret(),
		RedirectURI:  cfg.GetFitbitRedirectURI(),
	}, tokens)

	service := linking.NewService(discordClient, fitbitClient, tokens)
	cache := commands.NewCache(discordClient)

	return &App{
		Config:       cfg,
		Tokens:       tokens,
		Discord:      discordClient,
		Fitbit:       fitbitClient,
		Linking:      service,
		CommandCache: cache,
		Commands:     commands.New(service, cache, cfg.GetVerificationURL()),
		closeStore:   closeStore,
	}, nil
}

func (a *App) Close() error {
	if a.closeStore == nil {
		return nil
	}
	return a.closeStore()
}

// NewStore returns the configured storage backend, sealed when an encryption
// key is set, and a func that releases it.
func NewStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, func() error, error) {
	var (
		store     storage.Store
		closeFunc = func() error { return nil }
	)

	switch cfg.GetStorageBackend() {
	case config.StorageBackendRedis:
		rdb, err := redisstore.Connect(ctx, cfg.GetRedisAddr(), cfg.GetRedisPassword(), cfg.GetRedisDB())
		if err != nil {
			return nil, nil, fmt.Errorf("[app NewStore] %w", err)
		}
		store = redisstore.New(rdb)
		closeFunc = rdb.Close
	case config.StorageBackendMemory, "":
		log.Warn().Msg("Using in-memory storage, records are lost on restart")
		store = memstore.New()
	default:
		return nil, nil, fmt.Errorf("[app NewStore] unknown storage backend %q", cfg.GetStorageBackend())
	}

	if key := cfg.GetStorageEncryptionKey(); key != "" {
		sealed, err := storage.NewSealedStore(store, key)
		if err != nil {
			_ = closeFunc()
			return nil, nil, fmt.Errorf("[app NewStore] %w", err)
		}
		store = sealed
	}

	log.Info().Str("backend", cfg.GetStorageBackend()).Bool("sealed", cfg.GetStorageEncryptionKey() != "").Msg("Storage ready")
	return store, closeFunc, nil
}
