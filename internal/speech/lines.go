package speech

import (
	"fmt"
	"strings"
	"time"

	"github.com/hammamikhairi/levain/internal/domain"
)

// Every spoken string lives here. Keep lines short; the TTS engine
// handles inflection.

func LineWelcome() string {
	return "Levain is ready. Say next, start or done."
}

func LineBye() string {
	return "Happy baking."
}

// LineStep reads a step out: title, description, tips and duration.
func LineStep(order, total int, step domain.Step) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Step %d of %d. %s. %s", order, total, step.Title, step.Description)
	for _, t := range step.Tips {
		fmt.Fprintf(&b, " Tip: %s", strings.TrimSuffix(t, ".")+".")
	}
	if step.Timed() {
		fmt.Fprintf(&b, " This takes about %s.", FormatDurationSpeech(step.Duration()))
	}
	return b.String()
}

// LineStepDone is spoken when a step timer expires.
func LineStepDone(title string) string {
	if title == "" {
		return "Timer's up. Step complete."
	}
	return fmt.Sprintf("Timer's up. %s is done.", title)
}

// LineStarted confirms a step start.
func LineStarted(step domain.Step) string {
	if !step.Timed() {
		return fmt.Sprintf("%s started. Say done when you're finished.", step.Title)
	}
	return fmt.Sprintf("%s started. Timer set for %s.", step.Title, FormatDurationSpeech(step.Duration()))
}

// LineCompleted confirms a step completion.
func LineCompleted(title string) string {
	return fmt.Sprintf("%s complete.", title)
}

// FormatDurationSpeech returns a human-friendly spoken duration.
func FormatDurationSpeech(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	var parts []string
	if h > 0 {
		parts = append(parts, plural(h, "hour"))
	}
	if m > 0 {
		parts = append(parts, plural(m, "minute"))
	}
	if s > 0 || len(parts) == 0 {
		parts = append(parts, plural(s, "second"))
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
