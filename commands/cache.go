package commands

import (
	"context"
	"sync"

	"github.com/jrsteele09/fitbit-discord-bot/discord"
	"github.com/rs/zerolog/log"
)

// Lister fetches the commands registered with Discord
type Lister interface {
	Commands(ctx context.Context) ([]discord.ApplicationCommand, error)
}

// Cache holds the registered command list, ids included, so help does not call
// Discord on every invocation. It is filled by Load, lazily by Get when empty,
// and replaced by Refresh.
type Cache struct {
	lister Lister

	mu       sync.RWMutex
	commands []discord.ApplicationCommand
	loaded   bool
}

func NewCache(lister Lister) *Cache {
	return &Cache{lister: lister}
}

// Load fills the cache. Failures are logged, Get retries later.
func (c *Cache) Load(ctx context.Context) {
	if _, err := c.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("Could not load Discord commands")
	}
}

func (c *Cache) Get(ctx context.Context) ([]discord.ApplicationCommand, error) {
	c.mu.RLock()
	if c.loaded {
		cmds := c.commands
		c.mu.RUnlock()
		return cmds, nil
	}
	c.mu.RUnlock()
	return c.Refresh(ctx)
}

// Refresh refetches the command list and replaces the cached one.
func (c *Cache) Refresh(ctx context.Context) ([]discord.ApplicationCommand, error) {
	cmds, err := c.lister.Commands(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands = cmds
	c.loaded = true
	return cmds, nil
}
