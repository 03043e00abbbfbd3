package window

import (
	"testing"
	"time"
)

func TestSessionResetAt(t *testing.T) {
	oldest := time.Date(2026, 8, 26, 9, 15, 0, 0, time.Local)
	want := oldest.Add(5 * time.Hour)

	if got := SessionResetAt(oldest); !got.Equal(want) {
		t.Errorf("SessionResetAt = %v, want %v", got, want)
	}
	if got := SessionResetAt(time.Time{}); !got.IsZero() {
		t.Errorf("SessionResetAt(zero) = %v, want zero", got)
	}
}

func TestNextWeeklyReset(t *testing.T) {
	origin := time.Date(2026, 1, 7, 14, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"one cycle out",
			origin.Add(2 * 24 * time.Hour),
			origin.Add(WeeklyCycle),
		},
		{
			"many cycles out",
			origin.Add(10*WeeklyCycle + time.Hour),
			origin.Add(11 * WeeklyCycle),
		},
		{
			"now exactly on a cycle boundary advances past it",
			origin.Add(3 * WeeklyCycle),
			origin.Add(4 * WeeklyCycle),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextWeeklyReset(origin, tc.now); !got.Equal(tc.want) {
				t.Errorf("NextWeeklyReset = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNextWeeklyReset_UnknownOrigin(t *testing.T) {
	if got := NextWeeklyReset(time.Time{}, time.Now()); !got.IsZero() {
		t.Errorf("NextWeeklyReset(zero origin) = %v, want zero", got)
	}
}
