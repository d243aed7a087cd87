package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hammamikhairi/levain/internal/config"
	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
)

func TestResolveBakeID(t *testing.T) {
	logs := []domain.BakeLog{{ID: "ab12-0001"}, {ID: "ab12-0002"}, {ID: "cd34"}}
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"cd34", "cd34", false},
		{"cd", "cd34", false},
		{"ab12-0002", "ab12-0002", false},
		{"ab12", "", true},
		{"zz", "", true},
	}
	for _, tt := range tests {
		got, err := resolveBakeID(logs, tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("resolveBakeID(%q) = %q, %v; want %q, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
	if _, err := resolveBakeID(logs, "zz"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBakeryPersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.General.DatabasePath = filepath.Join(t.TempDir(), "levain.db")
	log := logger.New(logger.LevelOff, nil)

	b, err := openBakery(ctx, cfg, log)
	if err != nil {
		t.Fatalf("openBakery: %v", err)
	}
	b.engine.SetFlourWeight(ctx, 750)
	if _, err := b.journal.Finalize(ctx, b.engine.Snapshot(), 4, "", ""); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	b.Close()

	b, err = openBakery(ctx, cfg, log)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close()
	if got := b.engine.Snapshot().FlourWeight; got != 750 {
		t.Errorf("flour after reopen = %d, want 750", got)
	}
	if got := b.journal.Len(); got != 1 {
		t.Errorf("journal length after reopen = %d, want 1", got)
	}
}
