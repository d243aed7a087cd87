package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/engine"
	"github.com/hammamikhairi/levain/internal/logger"
	"github.com/hammamikhairi/levain/internal/recipe"
)

func quiet() *logger.Logger { return logger.New(logger.LevelOff, nil) }

type scriptedChat struct {
	reply string
	err   error
	got   []Message
}

func (s *scriptedChat) Chat(_ context.Context, msgs []Message) (string, error) {
	s.got = msgs
	return s.reply, s.err
}

func TestClientChat(t *testing.T) {
	var req payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k3y", r.Header.Get("api-key"))
		assert.Equal(t, "Bearer k3y", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Fold gently."}}]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k3y", quiet(), WithModel("gpt-4o-mini"), WithMaxTokens(50))
	reply, err := c.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "Fold gently.", reply)
	assert.Equal(t, "gpt-4o-mini", req.Model)
	assert.Equal(t, 50, req.MaxTokens)
}

func TestClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "x", quiet()).Chat(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer empty.Close()

	reply, err := NewClient(empty.URL, "x", quiet()).Chat(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestAskFallbacks(t *testing.T) {
	chat := &scriptedChat{err: errors.New("offline")}
	b := NewBaker(chat, quiet())
	assert.Equal(t, FallbackError, b.Ask(context.Background(), "why so sticky?", "ctx"))

	chat.err, chat.reply = nil, "  "
	assert.Equal(t, FallbackEmpty, b.Ask(context.Background(), "why so sticky?", "ctx"))

	chat.reply = "Wet your hands."
	assert.Equal(t, "Wet your hands.", b.Ask(context.Background(), "why so sticky?", "ctx"))
	require.Len(t, chat.got, 4)
	assert.Equal(t, RoleSystem, chat.got[0].Role)
	assert.Equal(t, "ctx", chat.got[1].Content)
	assert.Equal(t, "why so sticky?", chat.got[3].Content)

	b.Ask(context.Background(), "q", "")
	assert.Len(t, chat.got, 2)
}

func TestClassify(t *testing.T) {
	chat := &scriptedChat{reply: "```json\n{\"intent\": \"calc\"}\n```"}
	b := NewBaker(chat, quiet())

	got, err := b.Classify(context.Background(), "how much water do I need")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentCalc, got.Type)
	assert.Empty(t, got.Payload)

	chat.reply = `{"intent": "adjust"}`
	got, err = b.Classify(context.Background(), "I only have 800g flour")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentAdjust, got.Type)
	assert.Equal(t, "I only have 800g flour", got.Payload)

	chat.reply = "no idea"
	got, err = b.Classify(context.Background(), "blorp")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentUnknown, got.Type)
}

func TestAdjustAndApply(t *testing.T) {
	chat := &scriptedChat{reply: `{
		"actions": [
			{"type": "set_flour", "value": 800},
			{"type": "set_hydration", "value": 72},
			{"type": "set_duration", "step_id": "bulk-rest", "value": 95},
			{"type": "set_flour", "value": 800}
		],
		"summary": "Scaled down to 800 grams at 72 percent."
	}`}
	b := NewBaker(chat, quiet())
	adj, err := b.Adjust(context.Background(), "800g flour, wetter", "ctx")
	require.NoError(t, err)
	require.Len(t, adj.Actions, 4)

	e := engine.New(recipe.Default(quiet()), nil, quiet())
	changed, err := ApplyActions(context.Background(), e, adj.Actions)
	require.NoError(t, err)
	assert.Equal(t, 3, changed, "repeating a value is not a change")

	s := e.Snapshot()
	assert.Equal(t, 800, s.FlourWeight)
	assert.Equal(t, 72.0, s.Hydration)
	assert.Equal(t, 95, s.Step("bulk-rest").DurationMin)
}

func TestApplyStopsAtBadAction(t *testing.T) {
	e := engine.New(recipe.Default(quiet()), nil, quiet())
	changed, err := ApplyActions(context.Background(), e, []Action{
		{Type: ActionSetSalt, Value: 2},
		{Type: "double_it"},
		{Type: ActionSetLoaves, Value: 2},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "action 2")
	assert.Equal(t, 1, changed)
	assert.Equal(t, 1, e.Snapshot().LoafCount)

	_, err = ApplyActions(context.Background(), e, []Action{{Type: ActionSetDuration, Value: 10}})
	assert.Error(t, err)
	_, err = ApplyActions(context.Background(), e, []Action{{Type: ActionSetFlour, Value: -5}})
	assert.Error(t, err)
}

func TestAdjustFallsBackToSummary(t *testing.T) {
	b := NewBaker(&scriptedChat{reply: "Which step do you mean?"}, quiet())
	adj, err := b.Adjust(context.Background(), "make it longer", "")
	require.NoError(t, err)
	assert.Empty(t, adj.Actions)
	assert.Equal(t, "Which step do you mean?", adj.Summary)
}

func TestBuildContext(t *testing.T) {
	e := engine.New(recipe.Default(quiet()), nil, quiet())
	got := BuildContext(e.Snapshot(), e.ViewedStep())

	assert.Contains(t, got, "Current step: ")
	assert.Contains(t, got, "Flour: 1000g")
	assert.Contains(t, got, "Hydration: 60% (600g water)")
	assert.Contains(t, got, "Room temperature: 24°C")
	assert.Contains(t, got, "Starter: 30% (300g)")
	assert.Contains(t, got, "Salt: 3.5% (35g)")
	assert.Contains(t, got, "(bulk-rest) pending")
}
