// Package schedule projects the remaining steps onto the clock so the
// baker can see when the loaf will come out of the oven.
package schedule

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/hammamikhairi/levain/internal/domain"
)

// Gap is the handling time assumed between two steps.
const Gap = 5 * time.Minute

// LongStep is the duration past which a step is flagged as a long wait.
const LongStep = 60

// Slot is one step placed on the clock.
type Slot struct {
	StepID      string
	Title       string
	DurationMin int
	Start       time.Time
	End         time.Time
	Long        bool
}

// Build lays the steps out back to back from start. Each step begins
// where the previous one ended plus Gap.
func Build(start time.Time, steps []domain.Step) []Slot {
	slots := make([]Slot, 0, len(steps))
	cur := start
	for _, st := range steps {
		d := max(st.DurationMin, 0)
		end := cur.Add(time.Duration(d) * time.Minute)
		slots = append(slots, Slot{
			StepID:      st.ID,
			Title:       st.Title,
			DurationMin: d,
			Start:       cur,
			End:         end,
			Long:        d > LongStep,
		})
		cur = end.Add(Gap)
	}
	return slots
}

// Finish returns the end of the last slot, or the zero time.
func Finish(slots []Slot) time.Time {
	if len(slots) == 0 {
		return time.Time{}
	}
	return slots[len(slots)-1].End
}

// ParseStart reads an "HH:MM" start time on now's date and location.
// An empty string means now.
func ParseStart(hhmm string, now time.Time) (time.Time, error) {
	if hhmm == "" {
		return now.Truncate(time.Minute), nil
	}
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("start time %q: want HH:MM", hhmm)
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, now.Location()), nil
}

// Render writes the schedule as a plain-text timeline. Times past the
// first day carry a "+N" day suffix and long waits are starred.
func Render(w io.Writer, slots []Slot) error {
	var b bytes.Buffer
	if len(slots) == 0 {
		b.WriteString("No steps to schedule.\n")
		_, err := w.Write(b.Bytes())
		return err
	}

	first := slots[0].Start
	fmt.Fprintf(&b, "Starting %s\n\n", first.Format("Mon 2 Jan 15:04"))
	for _, s := range slots {
		mark := " "
		if s.Long {
			mark = "*"
		}
		fmt.Fprintf(&b, "%-8s %6s  %s %s\n", clock(s.Start, first), fmt.Sprintf("+%dm", s.DurationMin), mark, s.Title)
	}
	fmt.Fprintf(&b, "%-8s %6s    %s\n", clock(Finish(slots), first), "", "Estimated finish")
	b.WriteString("\n* long wait, plan around it\n")

	_, err := w.Write(b.Bytes())
	return err
}

func clock(t, origin time.Time) string {
	s := t.Format("15:04")
	if days := daysBetween(origin, t); days > 0 {
		s += fmt.Sprintf("+%d", days)
	}
	return s
}

func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
