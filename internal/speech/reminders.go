package speech

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
)

var _ domain.Notifier = (*Reminders)(nil)

// queuer is the part of Mouth a reminder needs.
type queuer interface {
	Say(text string, priority Priority)
}

// Reminders sends timer warnings and watcher nudges to the terminal and
// then reads them out, so a baker with floury hands still hears them.
type Reminders struct {
	screen domain.Notifier
	voice  queuer
	log    *logger.Logger
}

// NewReminders pairs the terminal notifier with a voice queue.
func NewReminders(screen domain.Notifier, voice queuer, log *logger.Logger) *Reminders {
	return &Reminders{screen: screen, voice: voice, log: log}
}

// Notify shows a nudge and reads it out at low priority, so the next
// step read-out can drop it.
func (r *Reminders) Notify(ctx context.Context, message string) error {
	return r.relay(ctx, message, PriorityLow)
}

// NotifyUrgent is for a timer that has run out. It jumps the voice queue.
func (r *Reminders) NotifyUrgent(ctx context.Context, message string) error {
	return r.relay(ctx, message, PriorityHigh)
}

func (r *Reminders) relay(ctx context.Context, message string, p Priority) error {
	show := r.screen.Notify
	if p == PriorityHigh {
		show = r.screen.NotifyUrgent
	}
	if err := show(ctx, message); err != nil {
		return err
	}
	if line := spokenForm(message); line != "" {
		r.voice.Say(line, p)
	} else {
		r.log.Debug("reminders: nothing to say for %q", message)
	}
	return nil
}

var (
	sourceTag  = regexp.MustCompile(`^\[[A-Za-z]+\]\s*`)
	termColors = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	units      = strings.NewReplacer("°C", " degrees", "°F", " degrees Fahrenheit", "%", " percent")
)

// spokenForm turns a terminal line into something worth hearing: the
// [Timer]/[Watcher] tag, colors and emoji go, units are spelled out.
func spokenForm(msg string) string {
	line := termColors.ReplaceAllString(msg, "")
	line = sourceTag.ReplaceAllString(line, "")
	line = units.Replace(line)
	line = strings.Map(func(r rune) rune {
		if r >= 0x2190 { // arrows, dingbats, emoji
			return -1
		}
		return r
	}, line)
	return strings.Join(strings.Fields(line), " ")
}
