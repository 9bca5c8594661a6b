package linking_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/fitbit-discord-bot/discord"
	"github.com/jrsteele09/fitbit-discord-bot/fitbit"
	"github.com/jrsteele09/fitbit-discord-bot/internal/oauthutil"
	"github.com/jrsteele09/fitbit-discord-bot/storage"
)

const (
	discordUserID = "D456"
	fitbitUserID  = "F123"
)

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type pushed struct {
	userID   string
	metadata discord.Metadata
}

type fakeDiscord struct {
	log    *callLog
	tokens *storage.Tokens
	state  string
	pushes []pushed
}

func (f *fakeDiscord) AuthorizationURL() (string, string) {
	return "https://discord.test/authorize?state=" + f.state, f.state
}

func (f *fakeDiscord) ExchangeCode(_ context.Context, code string) (oauthutil.TokenResult, error) {
	f.log.add("discord.exchange")
	if code != "discord-code" {
		return oauthutil.TokenResult{}, fmt.Errorf("bad code %q", code)
	}
	return oauthutil.TokenResult{AccessToken: "discord-access", RefreshToken: "discord-refresh", ExpiresAt: 1700000000000}, nil
}

func (f *fakeDiscord) UserData(_ context.Context, accessToken string) (*discord.CurrentAuthorization, error) {
	f.log.add("discord.userdata")
	return &discord.CurrentAuthorization{User: &discord.User{ID: discordUserID}}, nil
}

func (f *fakeDiscord) PushMetadata(_ context.Context, userID string, _ *storage.DiscordTokens, metadata discord.Metadata) error {
	f.log.add("discord.push")
	f.pushes = append(f.pushes, pushed{userID: userID, metadata: metadata})
	return nil
}

func (f *fakeDiscord) RevokeAccess(ctx context.Context, userID string) error {
	f.log.add("discord.revoke")
	return f.tokens.DeleteDiscordTokens(ctx, userID)
}

type fakeFitbit struct {
	log        *callLog
	tokens     *storage.Tokens
	state      string
	profileErr error
	activities int
}

func (f *fakeFitbit) AuthorizationURL() (string, string, string, error) {
	return "https://fitbit.test/authorize?state=" + f.state, f.state, "the-verifier", nil
}

func (f *fakeFitbit) ExchangeCode(_ context.Context, code, verifier string) (oauthutil.TokenResult, error) {
	f.log.add("fitbit.exchange")
	if verifier != "the-verifier" {
		return oauthutil.TokenResult{}, fmt.Errorf("bad verifier %q", verifier)
	}
	return oauthutil.TokenResult{AccessToken: "fitbit-access", RefreshToken: "fitbit-refresh", ExpiresAt: 1700000000000, UserID: fitbitUserID}, nil
}

func (f *fakeFitbit) CreateSubscription(_ context.Context, _ string, rec *storage.FitbitTokens) error {
	f.log.add("fitbit.subscribe:" + rec.DiscordUserID)
	return nil
}

func (f *fakeFitbit) Profile(_ context.Context, _ string, _ *storage.FitbitTokens) (*fitbit.Profile, error) {
	f.log.add("fitbit.profile")
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return &fitbit.Profile{User: fitbit.ProfileUser{
		EncodedID:         fitbitUserID,
		AverageDailySteps: 9000,
		Ambassador:        false,
		MemberSince:       "2016-01-05",
		IsCoach:           true,
	}}, nil
}

func (f *fakeFitbit) RecentActivities(_ context.Context, _ string, _ *storage.FitbitTokens) ([]fitbit.Activity, error) {
	f.log.add("fitbit.activities")
	f.activities++
	return []fitbit.Activity{{LogID: 1, ActivityName: "Walk"}}, nil
}

func (f *fakeFitbit) RevokeAccess(ctx context.Context, userID string) error {
	f.log.add("fitbit.revoke")
	return f.tokens.DeleteFitbitTokens(ctx, userID)
}
