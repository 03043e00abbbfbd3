package window

import "time"

// SessionResetAt returns the instant the rolling session window fully
// expires: the oldest still-counted call plus the window duration. Once that
// call turns five hours old it falls out of the window. Returns zero when
// oldest is zero (no usage in the current window).
func SessionResetAt(oldest time.Time) time.Time {
	if oldest.IsZero() {
		return time.Time{}
	}
	return oldest.Add(SessionDuration)
}

// NextWeeklyReset advances the account origin timestamp in fixed 7-day
// cycles until the result strictly exceeds now. Returns zero when no origin
// is known.
func NextWeeklyReset(origin, now time.Time) time.Time {
	if origin.IsZero() {
		return time.Time{}
	}
	reset := origin
	for !reset.After(now) {
		reset = reset.Add(WeeklyCycle)
	}
	return reset
}
