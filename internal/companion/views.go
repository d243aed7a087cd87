package companion

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/recipe"
	"github.com/hammamikhairi/levain/internal/timer"
)

// StepHeader renders "Step 4/18 · Add salt (active, 30 min)".
func StepHeader(order, total int, s domain.Step) string {
	detail := s.Status.String()
	if s.Timed() {
		detail += fmt.Sprintf(", %d min", s.DurationMin)
	} else {
		detail += ", manual"
	}
	return fmt.Sprintf("Step %d/%d · %s (%s)", order, total, s.Title, detail)
}

// StepBody renders the description, the numbered tip and ingredient
// checklists and the user's note.
func StepBody(s domain.Step, ingredients []recipe.Ingredient) []string {
	lines := []string{s.Description}

	if len(ingredients) > 0 {
		lines = append(lines, "", "Ingredients:")
		for i, ing := range ingredients {
			line := fmt.Sprintf("  %s %d. %s", checkbox(s.IngredientChecked(i)), i+1, ing.Name)
			if ing.Grams > 0 {
				line += fmt.Sprintf(" %dg", ing.Grams)
			}
			if ing.Note != "" {
				line += " (" + ing.Note + ")"
			}
			lines = append(lines, line)
		}
	}

	if len(s.Tips) > 0 {
		lines = append(lines, "", "Tips:")
		for i, tip := range s.Tips {
			lines = append(lines, fmt.Sprintf("  %s %d. %s", checkbox(s.TipChecked(i)), i+1, tip))
		}
	}

	if s.UserNote != "" {
		lines = append(lines, "", "Note: "+s.UserNote)
	}
	return lines
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

// CalcLines renders the ingredient weights and the flour blend.
func CalcLines(s domain.State) []string {
	a := recipe.AmountsFor(s)
	lines := []string{
		fmt.Sprintf("Flour    %5dg", a.Flour),
		fmt.Sprintf("Water    %5dg  (%g%%)", a.Water, s.Hydration),
		fmt.Sprintf("Starter  %5dg  (%g%%)", a.Starter, s.StarterRatio),
		fmt.Sprintf("Salt     %5dg  (%g%%)", a.Salt, s.SaltRatio),
		fmt.Sprintf("Total    %5dg  for %d %s", a.Total, s.LoafCount, plural(s.LoafCount, "loaf", "loaves")),
		"",
		"Flour blend:",
	}
	for _, part := range recipe.Blend(a.Flour) {
		lines = append(lines, fmt.Sprintf("  %-18s %5dg", part.Name, part.Grams))
	}
	return lines
}

// StatusLines renders progress, the running timer and every step's state.
func StatusLines(s domain.State, now time.Time) []string {
	done := 0
	for _, st := range s.Steps {
		if st.Status == domain.StepCompleted {
			done++
		}
	}
	lines := []string{fmt.Sprintf("%d/%d steps done · room %g°C", done, len(s.Steps), s.RoomTemp)}

	if active := s.ActiveStep(); active != nil {
		switch {
		case s.Expired(now):
			lines = append(lines, fmt.Sprintf("Active: %s, timer done", active.Title))
		case s.TimerRunning():
			lines = append(lines, fmt.Sprintf("Active: %s, %s left", active.Title, timer.FormatRemaining(s.Remaining(now))))
		default:
			lines = append(lines, fmt.Sprintf("Active: %s", active.Title))
		}
	} else {
		lines = append(lines, "No active step.")
	}

	lines = append(lines, "")
	for i, st := range s.Steps {
		lines = append(lines, fmt.Sprintf("%2d. %s %s", i+1, statusMark(st.Status), st.Title))
	}
	return lines
}

func statusMark(st domain.StepStatus) string {
	switch st {
	case domain.StepCompleted:
		return "✓"
	case domain.StepActive:
		return "▶"
	default:
		return "·"
	}
}

// JournalLines renders the bake history, newest first.
func JournalLines(logs []domain.BakeLog, now time.Time) []string {
	if len(logs) == 0 {
		return []string{"No bakes logged yet."}
	}
	lines := make([]string, 0, len(logs))
	for _, l := range logs {
		line := fmt.Sprintf("%s  %s  %dg @ %g%%  %s  %s",
			l.ID[:min(8, len(l.ID))],
			stars(l.Rating),
			l.FlourWeight, l.Hydration,
			humanizeMinutes(l.DurationTotalMin),
			humanize.RelTime(l.Date, now, "ago", "from now"),
		)
		if l.Notes != "" {
			line += "  " + l.Notes
		}
		lines = append(lines, line)
	}
	return lines
}

func stars(n int) string {
	n = max(min(n, domain.MaxRating), 0)
	return strings.Repeat("★", n) + strings.Repeat("☆", domain.MaxRating-n)
}

func humanizeMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// HelpLines lists the commands the keyword parser understands.
func HelpLines() []string {
	return []string{
		"Steps:     show · next · back · step <n> · focus · start · done · undo",
		"Recipe:    flour <g> · hydration <%> · starter <%> · salt <%> · loaves <n> · temp <°C>",
		"Step:      duration <min> · note <text> · tip <n> · check <n> · read",
		"Views:     status · calc · schedule · journal · weather",
		"Assistant: ask <question> · any question ending in ? · adjust <request>",
		"Bake:      finish <1-5> [notes] · reset · quit",
	}
}
