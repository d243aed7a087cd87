package timer

import (
	"fmt"
	"time"

	"github.com/hammamikhairi/levain/internal/domain"
)

// AppName is used in window titles and alert headers.
const AppName = "Levain"

// FormatRemaining renders a countdown as HH:MM:SS when at least an hour is
// left and MM:SS otherwise. Zero or negative durations render as 00:00:00.
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "00:00:00"
	}
	total := int(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Title returns the window title for the state at now: a compact M:SS
// countdown while a timer runs, a done marker once it expires, and the
// bare app name otherwise.
func Title(s domain.State, now time.Time) string {
	if !s.TimerRunning() {
		return AppName
	}
	left := s.TimerEndTime.Sub(now)
	if left <= 0 {
		return "🔔 Done! - " + AppName
	}
	total := int(left / time.Second)
	return fmt.Sprintf("%d:%02d ⏳ %s", total/60, total%60, AppName)
}

// spoken returns a human-friendly duration for reminders. It rounds to the
// nearest minute once there's at least one minute left.
func spoken(d time.Duration) string {
	d = d.Round(time.Second)
	totalSec := int(d.Seconds())
	if totalSec < 60 {
		if totalSec == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", totalSec)
	}
	m := (totalSec + 30) / 60
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}
