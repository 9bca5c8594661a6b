package linking

import (
	"strconv"

	"github.com/jrsteele09/fitbit-discord-bot/discord"
	"github.com/jrsteele09/fitbit-discord-bot/fitbit"
)

// ProfileToMetadata projects a Fitbit profile onto the role connection
// metadata keys. Booleans are sent as "1" or "0".
func ProfileToMetadata(profile *fitbit.Profile) discord.Metadata {
	steps := strconv.Itoa(profile.User.AverageDailySteps)
	ambassador := boolValue(profile.User.Ambassador)
	memberSince := profile.User.MemberSince
	isCoach := boolValue(profile.User.IsCoach)

	return discord.Metadata{
		discord.MetadataAverageDailySteps: &steps,
		discord.MetadataAmbassador:        &ambassador,
		discord.MetadataMemberSince:       &memberSince,
		discord.MetadataIsCoach:           &isCoach,
	}
}

func boolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
