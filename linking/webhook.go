package linking

import (
	"context"

	"github.com/jrsteele09/fitbit-discord-bot/fitbit"
	"github.com/jrsteele09/fitbit-discord-bot/internal/errors"
	"github.com/rs/zerolog/log"
)

const collectionActivities = "activities"

// HandleWebhook syncs metadata for the owner of the first event in a Fitbit
// notification. Activity notifications also log the owner's recent activities.
func (s *Service) HandleWebhook(ctx context.Context, events []fitbit.WebhookEvent) error {
	if len(events) == 0 {
		return nil
	}

	ownerID := events[0].OwnerID
	if err := s.UpdateMetadata(ctx, ownerID); err != nil {
		return err
	}

	for _, event := range events {
		if event.CollectionType == collectionActivities {
			s.LogRecentActivities(ctx, event.OwnerID)
		}
	}
	return nil
}

// LogRecentActivities logs the user's latest activities. Failures are logged
// and otherwise ignored.
func (s *Service) LogRecentActivities(ctx context.Context, fitbitUserID string) {
	rec, found, err := s.tokens.GetFitbitTokens(ctx, fitbitUserID)
	if err != nil || !found {
		if err == nil {
			err = errors.ErrNotFound
		}
		log.Error().Err(err).Str("fitbitUserId", fitbitUserID).Msg("No Fitbit data for activity update")
		return
	}

	activities, err := s.fitbit.RecentActivities(ctx, fitbitUserID, &rec)
	if err != nil {
		log.Error().Err(err).Str("fitbitUserId", fitbitUserID).Msg("Failed to fetch recent activities")
		return
	}
	for _, activity := range activities {
		log.Info().
			Str("fitbitUserId", fitbitUserID).
			Int64("logId", activity.LogID).
			Str("activity", activity.ActivityName).
			Str("startTime", activity.StartTime).
			Int64("durationMs", activity.Duration).
			Int("steps", activity.Steps).
			Msg("Fitbit activity")
	}
}
