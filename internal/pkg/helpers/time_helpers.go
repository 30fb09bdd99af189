package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returning the default on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// DateRange resolves optional start/end date strings (YYYY-MM-DD) into a
// concrete interval. An absent start date defaults to daysBack days before
// now; an absent end date defaults to now.
func DateRange(startStr, endStr string, daysBack int) (time.Time, time.Time, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -daysBack)
	end := now

	if startStr != "" {
		parsed, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	}
	if endStr != "" {
		parsed, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		// Include the whole end day.
		end = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	return start, end, nil
}
