package recipe

import (
	"errors"
	"testing"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default(logger.New(logger.LevelOff, nil))
	if c.Len() != 18 {
		t.Fatalf("expected 18 steps, got %d", c.Len())
	}

	steps := c.Instantiate()
	if steps[0].ID != "starter-feed" || steps[len(steps)-1].ID != "cool" {
		t.Fatalf("unexpected order: first=%s last=%s", steps[0].ID, steps[len(steps)-1].ID)
	}
	for _, s := range steps {
		if s.Status != domain.StepPending {
			t.Fatalf("step %s: status %s, want pending", s.ID, s.Status)
		}
		if s.CompletedAt != nil || s.UserNote != "" || len(s.CheckedTips) != 0 {
			t.Fatalf("step %s: instantiated with progress", s.ID)
		}
		if len(s.Tips) == 0 {
			t.Fatalf("step %s: no tips", s.ID)
		}
	}
}

func TestInstantiateIsIndependent(t *testing.T) {
	c := Default(logger.New(logger.LevelOff, nil))

	a := c.Instantiate()
	a[0].Tips[0] = "scribbled"
	a[0].DurationMin = 1

	b := c.Instantiate()
	if b[0].Tips[0] == "scribbled" {
		t.Fatal("tips shared between instances")
	}
	if b[0].DurationMin != 240 {
		t.Fatalf("duration leaked: %d", b[0].DurationMin)
	}
	tmpl, _ := c.Template(a[0].ID)
	if tmpl.Tips[0] == "scribbled" {
		t.Fatal("catalog template mutated")
	}
}

func TestBaseDuration(t *testing.T) {
	c := Default(logger.New(logger.LevelOff, nil))

	tests := []struct {
		id      string
		want    int
		wantErr error
	}{
		{"bulk-fold-1", 30, nil},
		{"starter-feed", 240, nil},
		{"room-proof", 60, nil},
		{"cold-proof", 0, domain.ErrNotAmbient},
		{"bake-covered", 0, domain.ErrNotAmbient},
		{"nonexistent", 0, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := c.BaseDuration(tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("BaseDuration(%s) = %d, want %d", tt.id, got, tt.want)
			}
		})
	}
}

func TestLoadRejectsBadCatalogs(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "steps: []"},
		{"not yaml", "steps: [unclosed"},
		{"missing id", "steps:\n  - title: x\n    duration: 5"},
		{"duplicate", "steps:\n  - id: a\n  - id: a"},
		{"negative", "steps:\n  - id: a\n    duration: -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc), log)
			if !errors.Is(err, domain.ErrInvalidDocument) {
				t.Fatalf("expected ErrInvalidDocument, got %v", err)
			}
		})
	}
}

func TestAmbientIDs(t *testing.T) {
	c := Default(logger.New(logger.LevelOff, nil))
	ids := c.AmbientIDs()
	want := []string{
		"starter-feed", "add-starter", "add-salt",
		"bulk-fold-1", "bulk-fold-2", "bulk-fold-3", "bulk-fold-4",
		"bulk-rest", "room-proof",
	}
	if len(ids) != len(want) {
		t.Fatalf("ambient ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ambient ids = %v, want %v", ids, want)
		}
	}
}
