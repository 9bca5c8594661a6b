package fitbit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jrsteele09/fitbit-discord-bot/internal/apiclient"
	"github.com/jrsteele09/fitbit-discord-bot/storage"
)

// Profile is the subset of GET /1/user/-/profile.json the bot reads.
type Profile struct {
	User ProfileUser `json:"user"`
}

type ProfileUser struct {
	EncodedID         string `json:"encodedId"`
	DisplayName       string `json:"displayName"`
	FullName          string `json:"fullName,omitempty"`
	AverageDailySteps int    `json:"averageDailySteps"`
	Ambassador        bool   `json:"ambassador"`
	MemberSince       string `json:"memberSince"`
	IsCoach           bool   `json:"isCoach"`
	Timezone          string `json:"timezone,omitempty"`
}

type Subscription struct {
	CollectionType string `json:"collectionType"`
	OwnerID        string `json:"ownerId"`
	OwnerType      string `json:"ownerType"`
	SubscriberID   string `json:"subscriberId"`
	SubscriptionID string `json:"subscriptionId"`
}

type subscriptionList struct {
	APISubscriptions []Subscription `json:"apiSubscriptions"`
}

// Activity is one entry of the activity log list
type Activity struct {
	LogID        int64   `json:"logId"`
	ActivityName string  `json:"activityName"`
	StartTime    string  `json:"startTime"`
	Duration     int64   `json:"duration"`
	Steps        int     `json:"steps,omitempty"`
	Calories     int     `json:"calories,omitempty"`
	Distance     float64 `json:"distance,omitempty"`
}

type activityList struct {
	Activities []Activity `json:"activities"`
}

// WebhookEvent is one element of the array Fitbit posts to the subscriber
// endpoint.
type WebhookEvent struct {
	CollectionType string `json:"collectionType"`
	Date           string `json:"date"`
	OwnerID        string `json:"ownerId"`
	OwnerType      string `json:"ownerType"`
	SubscriptionID string `json:"subscriptionId"`
}

const recentActivitiesLimit = 10

func (c *Client) get(ctx context.Context, userID string, rec *storage.FitbitTokens, path string, query url.Values, out any) error {
	token, err := c.AccessToken(ctx, userID, rec)
	if err != nil {
		return err
	}
	return c.api.Do(ctx, apiclient.Request{
		Method:        http.MethodGet,
		Path:          path,
		Query:         query,
		Authorization: apiclient.Bearer(token),
	}, out)
}

// CreateSubscription subscribes to all collections for the user. The
// subscription id is the linked Discord user id.
func (c *Client) CreateSubscription(ctx context.Context, userID string, rec *storage.FitbitTokens) error {
	token, err := c.AccessToken(ctx, userID, rec)
	if err != nil {
		return err
	}
	err = c.api.Do(ctx, apiclient.Request{
		Method:        http.MethodPost,
		Path:          "/1/user/-/apiSubscriptions/" + url.PathEscape(rec.DiscordUserID) + ".json",
		Authorization: apiclient.Bearer(token),
	}, nil)
	if err != nil {
		return fmt.Errorf("create fitbit subscription: %w", err)
	}
	return nil
}

func (c *Client) ListSubscriptions(ctx context.Context, userID string, rec *storage.FitbitTokens) ([]Subscription, error) {
	var list subscriptionList
	if err := c.get(ctx, userID, rec, "/1/user/-/apiSubscriptions.json", nil, &list); err != nil {
		return nil, fmt.Errorf("list fitbit subscriptions: %w", err)
	}
	return list.APISubscriptions, nil
}

func (c *Client) Profile(ctx context.Context, userID string, rec *storage.FitbitTokens) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, userID, rec, "/1/user/-/profile.json", nil, &profile); err != nil {
		return nil, fmt.Errorf("get fitbit profile: %w", err)
	}
	return &profile, nil
}

// RecentActivities returns the most recent logged activities, newest first.
func (c *Client) RecentActivities(ctx context.Context, userID string, rec *storage.FitbitTokens) ([]Activity, error) {
	query := url.Values{
		"beforeDate": {c.nowFunc().UTC().AddDate(0, 0, 1).Format(time.DateOnly)},
		"sort":       {"desc"},
		"offset":     {"0"},
		"limit":      {fmt.Sprint(recentActivitiesLimit)},
	}
	var list activityList
	if err := c.get(ctx, userID, rec, "/1/user/-/activities/list.json", query, &list); err != nil {
		return nil, fmt.Errorf("get fitbit activities: %w", err)
	}
	return list.Activities, nil
}
