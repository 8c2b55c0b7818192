package engine_v1

import (
	"strconv"
	"strings"
	"time"

	"github.com/trendlab/trendfollow/pkg/errors"
)

// minuteOfDay converts an "HH:MM" clock string to minutes since midnight.
func minuteOfDay(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, errors.Newf(errors.ErrCodeInvalidTimeWindow, "invalid clock time %q", clock)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeInvalidTimeWindow, err, "invalid hour in %q", clock)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeInvalidTimeWindow, err, "invalid minute in %q", clock)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, errors.Newf(errors.ErrCodeInvalidTimeWindow, "clock time %q out of range", clock)
	}

	return hour*60 + minute, nil
}

// inWindow reports whether now falls inside [start, start+width minutes).
// Windows never wrap midnight: the trading day ends well before it.
func inWindow(now time.Time, start string, widthMinutes int) bool {
	startMinute, err := minuteOfDay(start)
	if err != nil {
		return false
	}

	nowMinute := now.Hour()*60 + now.Minute()

	return nowMinute >= startMinute && nowMinute < startMinute+widthMinutes
}

// atOrAfter reports whether now has reached the given clock time.
func atOrAfter(now time.Time, clock string) bool {
	clockMinute, err := minuteOfDay(clock)
	if err != nil {
		return false
	}

	return now.Hour()*60+now.Minute() >= clockMinute
}

// clockAt combines the date of day with an "HH:MM" clock string.
func clockAt(day time.Time, clock string) time.Time {
	clockMinute, err := minuteOfDay(clock)
	if err != nil {
		return day
	}

	return time.Date(day.Year(), day.Month(), day.Day(), clockMinute/60, clockMinute%60, 0, 0, day.Location())
}
