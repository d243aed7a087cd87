package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
	"github.com/hammamikhairi/levain/internal/recipe"
)

// Replies used when the model can't be reached or says nothing.
const (
	FallbackError = "Oops, there seems to be a problem reaching the baker. Please check your connection."
	FallbackEmpty = "Sorry, I can't think right now. Try again later."
)

// Compile-time interface check.
var _ domain.Assistant = (*Baker)(nil)

// Baker wraps a Chatter with sourdough context building. It is the single
// entry point the CLI calls for AI features.
type Baker struct {
	chat Chatter
	log  *logger.Logger
}

// NewBaker creates a baking assistant backed by chat.
func NewBaker(chat Chatter, log *logger.Logger) *Baker {
	return &Baker{chat: chat, log: log}
}

// Ask answers a free-form question. It never fails: errors come back as
// FallbackError and empty replies as FallbackEmpty.
func (b *Baker) Ask(ctx context.Context, query, bakeContext string) string {
	reply, err := b.chat.Chat(ctx, buildMessages(PromptQuestion, query, bakeContext))
	if err != nil {
		b.log.Error("assistant: ask failed: %v", err)
		return FallbackError
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return FallbackEmpty
	}
	return reply
}

// Adjust asks the model to turn a change request into actions. A reply
// that isn't valid JSON becomes a summary with no actions.
func (b *Baker) Adjust(ctx context.Context, request, bakeContext string) (*Adjustment, error) {
	raw, err := b.chat.Chat(ctx, buildMessages(PromptAdjust, request, bakeContext))
	if err != nil {
		return nil, err
	}
	raw = stripCodeFence(raw)

	var adj Adjustment
	if err := json.Unmarshal([]byte(raw), &adj); err != nil {
		b.log.Error("assistant: failed to parse adjust JSON: %v\nraw: %s", err, raw)
		return &Adjustment{Summary: raw}, nil
	}
	b.log.Debug("assistant: adjust response: %d actions, summary=%q", len(adj.Actions), truncate(adj.Summary, 80))
	return &adj, nil
}

type classifyResponse struct {
	Intent  string `json:"intent"`
	Payload string `json:"payload"`
}

// Classify maps input the keyword parser didn't recognise onto an intent.
// Unparseable replies yield IntentUnknown.
func (b *Baker) Classify(ctx context.Context, input string) (*domain.Intent, error) {
	raw, err := b.chat.Chat(ctx, buildMessages(PromptClassify, input, ""))
	if err != nil {
		return nil, err
	}
	raw = stripCodeFence(raw)

	var resp classifyResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		b.log.Error("assistant: failed to parse classify JSON: %v\nraw: %s", err, raw)
		return &domain.Intent{Type: domain.IntentUnknown, Payload: input}, nil
	}

	intent := domain.IntentFromString(resp.Intent)
	b.log.Debug("assistant: classified %q -> %s (payload=%q)", input, intent, resp.Payload)

	payload := resp.Payload
	if payload == "" && (intent == domain.IntentAsk || intent == domain.IntentAdjust || intent == domain.IntentUnknown) {
		payload = input
	}
	return &domain.Intent{Type: intent, Payload: payload}, nil
}

// buildMessages assembles the system prompt, an optional context message
// with a canned acknowledgement, and the user's text.
func buildMessages(system, user, bakeContext string) []Message {
	msgs := []Message{{Role: RoleSystem, Content: system}}
	if bakeContext != "" {
		msgs = append(msgs,
			Message{Role: RoleUser, Content: bakeContext},
			Message{Role: RoleAssistant, Content: "Got it, I have the context."},
		)
	}
	return append(msgs, Message{Role: RoleUser, Content: user})
}

// BuildContext describes the viewed step and the recipe numbers in a
// plain-text block the model can reason over.
func BuildContext(s domain.State, viewed domain.Step) string {
	a := recipe.AmountsFor(s)

	var b strings.Builder
	b.WriteString("[Current Bake]\n")
	fmt.Fprintf(&b, "Current step: %s (%s)\n", viewed.Title, viewed.ID)
	if viewed.Description != "" {
		fmt.Fprintf(&b, "Step description: %s\n", viewed.Description)
	}
	fmt.Fprintf(&b, "Flour: %dg\n", s.FlourWeight)
	fmt.Fprintf(&b, "Hydration: %g%% (%dg water)\n", s.Hydration, a.Water)
	fmt.Fprintf(&b, "Room temperature: %g°C\n", s.RoomTemp)
	fmt.Fprintf(&b, "Starter: %g%% (%dg)\n", s.StarterRatio, a.Starter)
	fmt.Fprintf(&b, "Salt: %g%% (%dg)\n", s.SaltRatio, a.Salt)
	fmt.Fprintf(&b, "Loaves: %d\n", s.LoafCount)

	b.WriteString("\n[Steps]\n")
	for i, st := range s.Steps {
		fmt.Fprintf(&b, "%d. %s (%s) %s", i+1, st.Title, st.ID, st.Status)
		if st.Timed() {
			fmt.Fprintf(&b, ", %d min", st.DurationMin)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// stripCodeFence removes ```json ... ``` wrappers that models like to add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
