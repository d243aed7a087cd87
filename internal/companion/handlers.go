package companion

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hammamikhairi/levain/internal/assistant"
	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/recipe"
	"github.com/hammamikhairi/levain/internal/schedule"
	"github.com/hammamikhairi/levain/internal/speech"
	"github.com/hammamikhairi/levain/internal/weather"
)

// Request timeouts for the network collaborators.
const (
	askTimeout     = 45 * time.Second
	weatherTimeout = 10 * time.Second
)

func (a *App) dispatch(ctx context.Context, intent *domain.Intent) {
	switch intent.Type {
	case domain.IntentHelp:
		a.lines(HelpLines())
	case domain.IntentStatus:
		a.lines(StatusLines(a.engine.Snapshot(), a.engine.Now()))
	case domain.IntentShow:
		a.showViewed()
	case domain.IntentStart:
		a.handleStart(ctx, intent.Payload)
	case domain.IntentComplete:
		a.handleComplete(ctx)
	case domain.IntentUndo:
		a.handleUndo(ctx)
	case domain.IntentNext:
		a.move(a.engine.GoToNext(), "That's the last step.")
	case domain.IntentPrev:
		a.move(a.engine.GoToPrev(), "That's the first step.")
	case domain.IntentGoTo:
		a.handleGoTo(intent.Payload)
	case domain.IntentFocus:
		a.move(a.engine.FocusActive(), "No step is active.")
	case domain.IntentFlour:
		a.setInt(intent.Payload, "Flour", "g", func(v int) bool { return a.engine.SetFlourWeight(ctx, v) })
	case domain.IntentHydration:
		a.setFloat(intent.Payload, "Hydration", "%", func(v float64) bool { return a.engine.SetHydration(ctx, v) })
	case domain.IntentStarter:
		a.setFloat(intent.Payload, "Starter", "%", func(v float64) bool { return a.engine.SetStarterRatio(ctx, v) })
	case domain.IntentSalt:
		a.setFloat(intent.Payload, "Salt", "%", func(v float64) bool { return a.engine.SetSaltRatio(ctx, v) })
	case domain.IntentLoaves:
		a.setInt(intent.Payload, "Loaves", "", func(v int) bool { return a.engine.SetLoafCount(ctx, v) })
	case domain.IntentTemp:
		a.setFloat(intent.Payload, "Room temperature", "°C", func(v float64) bool { return a.engine.SetRoomTemp(ctx, v) })
	case domain.IntentDuration:
		a.handleDuration(ctx, intent.Payload)
	case domain.IntentNote:
		a.handleNote(ctx, intent.Payload)
	case domain.IntentTip:
		a.handleTip(ctx, intent.Payload)
	case domain.IntentIngredient:
		a.handleIngredient(ctx, intent.Payload)
	case domain.IntentCalc:
		a.lines(CalcLines(a.engine.Snapshot()))
	case domain.IntentSchedule:
		a.handleSchedule()
	case domain.IntentWeather:
		a.handleWeather(ctx)
	case domain.IntentAsk:
		a.handleAsk(ctx, intent.Payload)
	case domain.IntentAdjust:
		a.handleAdjust(ctx, intent.Payload)
	case domain.IntentRead:
		a.handleRead()
	case domain.IntentFinish:
		a.handleFinish(ctx, intent.Payload)
	case domain.IntentJournal:
		a.lines(JournalLines(a.journal.List(), a.engine.Now()))
	case domain.IntentReset:
		a.engine.Reset(ctx)
		a.say("Fresh start. Everything is back to the defaults.", speech.PriorityNormal)
		a.showViewed()
	default:
		a.hint("I didn't catch that. Type help for the command list.")
	}
}

// showViewed prints the step under the cursor.
func (a *App) showViewed() {
	_, total := a.engine.Progress()
	step := a.engine.ViewedStep()
	a.out.PrintStep(StepHeader(a.engine.Cursor()+1, total, step))
	a.lines(StepBody(step, recipe.StepIngredients(step.ID, a.engine.Amounts())))
}

func (a *App) move(moved bool, atEdge string) {
	if !moved {
		a.hint(atEdge)
		return
	}
	a.showViewed()
}

// resolveStep maps a start payload to a step id: empty means the viewed
// step, digits are a 1-based step number, anything else is an id.
func (a *App) resolveStep(payload string) (domain.Step, bool) {
	if payload == "" {
		return a.engine.ViewedStep(), true
	}
	s := a.engine.Snapshot()
	if n, err := strconv.Atoi(payload); err == nil {
		if n < 1 || n > len(s.Steps) {
			return domain.Step{}, false
		}
		return s.Steps[n-1], true
	}
	if st := s.Step(payload); st != nil {
		return *st, true
	}
	return domain.Step{}, false
}

func (a *App) handleStart(ctx context.Context, payload string) {
	step, ok := a.resolveStep(payload)
	if !ok {
		a.hint(fmt.Sprintf("There's no step %q.", payload))
		return
	}
	switch step.Status {
	case domain.StepCompleted:
		a.hint(fmt.Sprintf("%s is already done. Say undo first to redo it.", step.Title))
		return
	case domain.StepActive:
		a.hint(fmt.Sprintf("%s is already running.", step.Title))
		return
	}
	if !a.engine.StartStep(ctx, step.ID) {
		a.hint(fmt.Sprintf("Couldn't start %s.", step.Title))
		return
	}
	a.say(speech.LineStarted(step), speech.PriorityNormal)
	// Starting another step by number or id brings it into view.
	if payload != "" && a.engine.FocusActive() {
		a.showViewed()
	}
}

func (a *App) handleComplete(ctx context.Context) {
	step := a.engine.ViewedStep()
	if step.Status == domain.StepCompleted {
		a.hint(fmt.Sprintf("%s is already done.", step.Title))
		return
	}
	a.engine.CompleteStep(ctx, step.ID)
	a.say(speech.LineCompleted(step.Title), speech.PriorityNormal)
	if a.engine.GoToNext() {
		a.showViewed()
		return
	}
	if done, total := a.engine.Progress(); done == total {
		a.say("That was the last step. Say finish with a rating to log this bake.", speech.PriorityNormal)
	}
}

func (a *App) handleUndo(ctx context.Context) {
	step := a.engine.ViewedStep()
	if !a.engine.UndoStep(ctx, step.ID) {
		a.hint(fmt.Sprintf("%s isn't done, nothing to undo.", step.Title))
		return
	}
	a.say(fmt.Sprintf("%s is back to pending.", step.Title), speech.PriorityNormal)
}

func (a *App) handleGoTo(payload string) {
	n, err := strconv.Atoi(payload)
	if err != nil {
		a.hint("Which step? Say step and a number.")
		return
	}
	if n == a.engine.Cursor()+1 {
		a.showViewed()
		return
	}
	_, total := a.engine.Progress()
	a.move(a.engine.GoToStep(n-1), fmt.Sprintf("Pick a step between 1 and %d.", total))
}

func (a *App) setInt(payload, label, unit string, set func(int) bool) {
	v, err := strconv.Atoi(payload)
	if err != nil || v < 0 {
		a.hint(fmt.Sprintf("%s needs a whole number.", label))
		return
	}
	a.confirm(set(v), fmt.Sprintf("%s %d%s", label, v, unit))
}

func (a *App) setFloat(payload, label, unit string, set func(float64) bool) {
	v, err := strconv.ParseFloat(payload, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		a.hint(fmt.Sprintf("%s needs a number.", label))
		return
	}
	a.confirm(set(v), fmt.Sprintf("%s %g%s", label, v, unit))
}

func (a *App) confirm(changed bool, what string) {
	if !changed {
		a.hint(fmt.Sprintf("%s: nothing changed.", what))
		return
	}
	a.say(what+".", speech.PriorityNormal)
}

func (a *App) handleDuration(ctx context.Context, payload string) {
	minutes, err := strconv.Atoi(payload)
	if err != nil || minutes < 0 {
		a.hint("Duration needs a number of minutes.")
		return
	}
	step := a.engine.ViewedStep()
	if !a.engine.UpdateStepDuration(ctx, step.ID, minutes) {
		a.hint(fmt.Sprintf("%s is already %d minutes.", step.Title, minutes))
		return
	}
	a.say(fmt.Sprintf("%s set to %d minutes.", step.Title, minutes), speech.PriorityNormal)
}

func (a *App) handleNote(ctx context.Context, text string) {
	step := a.engine.ViewedStep()
	a.engine.SaveStepNote(ctx, step.ID, text)
	a.hint(fmt.Sprintf("Note saved on %s.", step.Title))
}

// checklistIndex turns a 1-based payload into a 0-based index below n.
func checklistIndex(payload string, n int) (int, bool) {
	i, err := strconv.Atoi(payload)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}

func (a *App) handleTip(ctx context.Context, payload string) {
	step := a.engine.ViewedStep()
	i, ok := checklistIndex(payload, len(step.Tips))
	if !ok {
		a.hint(fmt.Sprintf("%s has %d %s.", step.Title, len(step.Tips), plural(len(step.Tips), "tip", "tips")))
		return
	}
	a.engine.ToggleStepTip(ctx, step.ID, i)
	a.showViewed()
}

func (a *App) handleIngredient(ctx context.Context, payload string) {
	step := a.engine.ViewedStep()
	ings := recipe.StepIngredients(step.ID, a.engine.Amounts())
	i, ok := checklistIndex(payload, len(ings))
	if !ok {
		a.hint(fmt.Sprintf("%s has %d %s.", step.Title, len(ings), plural(len(ings), "ingredient", "ingredients")))
		return
	}
	a.engine.ToggleStepIngredient(ctx, step.ID, i)
	a.showViewed()
}

func (a *App) handleSchedule() {
	slots := schedule.Build(a.engine.Now().Truncate(time.Minute), a.engine.Snapshot().Steps)
	var b strings.Builder
	if err := schedule.Render(&b, slots); err != nil {
		a.log.Error("rendering schedule: %v", err)
		return
	}
	a.lines(strings.Split(strings.TrimRight(b.String(), "\n"), "\n"))
}

func (a *App) handleWeather(ctx context.Context) {
	if a.weather == nil {
		a.hint("Weather isn't configured. Set a latitude and longitude in the config.")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, weatherTimeout)
	defer cancel()

	temp, err := weather.RoomTemp(ctx, a.weather, a.location.Latitude, a.location.Longitude)
	if err != nil {
		a.log.Warn("weather lookup: %v", err)
		a.hint("Couldn't reach the weather service.")
		return
	}
	a.engine.SetRoomTemp(ctx, temp)
	a.say(fmt.Sprintf("It's %g°C outside. Timings adjusted.", temp), speech.PriorityNormal)
}

func (a *App) bakeContext() string {
	return assistant.BuildContext(a.engine.Snapshot(), a.engine.ViewedStep())
}

func (a *App) handleAsk(ctx context.Context, question string) {
	if a.asker == nil {
		a.hint("The assistant is off.")
		return
	}
	if question == "" {
		a.hint("Ask me something, like: ask how do I know the bulk is done?")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, askTimeout)
	defer cancel()

	a.hint("Thinking...")
	a.say(a.asker.Ask(ctx, question, a.bakeContext()), speech.PriorityNormal)
}

func (a *App) handleAdjust(ctx context.Context, request string) {
	if a.adjuster == nil {
		a.hint("The assistant is off. Use flour, hydration, starter, salt or loaves directly.")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, askTimeout)
	defer cancel()

	adj, err := a.adjuster.Adjust(ctx, request, a.bakeContext())
	if err != nil {
		a.log.Warn("adjust: %v", err)
		a.hint(assistant.FallbackError)
		return
	}
	changed, err := assistant.ApplyActions(ctx, a.engine, adj.Actions)
	if err != nil {
		a.log.Warn("applying adjustment: %v", err)
		a.hint(fmt.Sprintf("Applied %d of %d changes: %v", changed, len(adj.Actions), err))
	}
	if adj.Summary != "" {
		a.say(adj.Summary, speech.PriorityNormal)
	}
	if changed > 0 {
		a.lines(CalcLines(a.engine.Snapshot()))
	}
}

func (a *App) handleRead() {
	_, total := a.engine.Progress()
	step := a.engine.ViewedStep()
	text := speech.LineStep(a.engine.Cursor()+1, total, step)
	if a.mouth == nil {
		a.out.PrintChat(text)
		return
	}
	a.mouth.Say(text, speech.PriorityLow)
}

// handleFinish logs the bake. The payload is "<rating> [notes]".
func (a *App) handleFinish(ctx context.Context, payload string) {
	rating, notes, ok := parseFinish(payload)
	if !ok {
		a.hint(fmt.Sprintf("Rate the bake from %d to %d, like: finish 4 great oven spring", domain.MinRating, domain.MaxRating))
		return
	}
	entry, err := a.journal.Finalize(ctx, a.engine.Snapshot(), rating, notes, "")
	if err != nil {
		a.log.Error("finalizing bake: %v", err)
		a.out.PrintUrgent("Couldn't save the bake log.")
		return
	}
	a.say(fmt.Sprintf("Logged a %d-star bake. Say reset to start the next one.", entry.Rating), speech.PriorityNormal)
}

func parseFinish(payload string) (rating int, notes string, ok bool) {
	head, rest, _ := strings.Cut(strings.TrimSpace(payload), " ")
	rating, err := strconv.Atoi(head)
	if err != nil {
		return 0, "", false
	}
	return rating, strings.TrimSpace(rest), true
}
