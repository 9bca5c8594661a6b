package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// StateTTL bounds how long a linking attempt may sit between the Discord and
// Fitbit redirects.
const StateTTL = 60 * time.Second

func discordKey(userID string) string     { return "discord-" + userID }
func fitbitKey(userID string) string      { return "fitbit-" + userID }
func stateKey(state string) string        { return "state-" + state }
func discordLinkKey(userID string) string { return "discord-link-" + userID }

// Tokens is the typed repository over a Store for every record the bot keeps.
type Tokens struct {
	store Store
}

func NewTokens(store Store) *Tokens {
	return &Tokens{store: store}
}

func (t *Tokens) PutDiscordTokens(ctx context.Context, userID string, data DiscordTokens) error {
	return t.putJSON(ctx, discordKey(userID), data, 0)
}

func (t *Tokens) GetDiscordTokens(ctx context.Context, userID string) (DiscordTokens, bool, error) {
	var data DiscordTokens
	found, err := t.getJSON(ctx, discordKey(userID), &data)
	return data, found, err
}

func (t *Tokens) DeleteDiscordTokens(ctx context.Context, userID string) error {
	return t.store.Delete(ctx, discordKey(userID))
}

func (t *Tokens) PutFitbitTokens(ctx context.Context, userID string, data FitbitTokens) error {
	return t.putJSON(ctx, fitbitKey(userID), data, 0)
}

func (t *Tokens) GetFitbitTokens(ctx context.Context, userID string) (FitbitTokens, bool, error) {
	var data FitbitTokens
	found, err := t.getJSON(ctx, fitbitKey(userID), &data)
	return data, found, err
}

func (t *Tokens) DeleteFitbitTokens(ctx context.Context, userID string) error {
	return t.store.Delete(ctx, fitbitKey(userID))
}

// PutState stores the state of a linking attempt for StateTTL.
func (t *Tokens) PutState(ctx context.Context, state string, data StateData) error {
	return t.putJSON(ctx, stateKey(state), data, StateTTL)
}

// ConsumeState returns the state data and deletes it, so a state can only be
// used once.
func (t *Tokens) ConsumeState(ctx context.Context, state string) (StateData, bool, error) {
	var data StateData
	found, err := t.getJSON(ctx, stateKey(state), &data)
	if err != nil || !found {
		return data, found, err
	}
	if err := t.store.Delete(ctx, stateKey(state)); err != nil {
		return data, false, fmt.Errorf("delete state: %w", err)
	}
	return data, true, nil
}

func (t *Tokens) GetLinkedFitbitUserID(ctx context.Context, discordUserID string) (string, bool, error) {
	value, found, err := t.store.Get(ctx, discordLinkKey(discordUserID))
	if err != nil || !found {
		return "", found, err
	}
	return string(value), true, nil
}

func (t *Tokens) SetLinkedFitbitUserID(ctx context.Context, discordUserID, fitbitUserID string) error {
	return t.store.Put(ctx, discordLinkKey(discordUserID), []byte(fitbitUserID), 0)
}

func (t *Tokens) DeleteLinkedFitbitUser(ctx context.Context, discordUserID string) error {
	return t.store.Delete(ctx, discordLinkKey(discordUserID))
}

func (t *Tokens) putJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := t.store.Put(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (t *Tokens) getJSON(ctx context.Context, key string, v any) (bool, error) {
	data, found, err := t.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}
