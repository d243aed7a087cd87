package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/levain/internal/companion"
	"github.com/hammamikhairi/levain/internal/domain"
)

var (
	exportDir string
	addRating int
	addNotes  string
	addImage  string
)

func init() {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Manage the bake journal",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List logged bakes, newest first",
		Args:  cobra.NoArgs,
		RunE:  runJournalList,
	}
	journalCmd.AddCommand(listCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the journal to a JSON file",
		Args:  cobra.NoArgs,
		RunE:  runJournalExport,
	}
	exportCmd.Flags().StringVar(&exportDir, "dir", ".", "directory to write the export to")
	journalCmd.AddCommand(exportCmd)

	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the journal with an exported file",
		Args:  cobra.ExactArgs(1),
		RunE:  runJournalImport,
	}
	journalCmd.AddCommand(importCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a bake by id or unique id prefix",
		Args:  cobra.ExactArgs(1),
		RunE:  runJournalDelete,
	}
	journalCmd.AddCommand(deleteCmd)

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Log the current bake",
		Args:  cobra.NoArgs,
		RunE:  runJournalAdd,
	}
	addCmd.Flags().IntVar(&addRating, "rating", 0, "rating from 1 to 5")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "tasting notes")
	addCmd.Flags().StringVar(&addImage, "image", "", "path or reference to a photo")
	addCmd.MarkFlagRequired("rating")
	journalCmd.AddCommand(addCmd)

	rootCmd.AddCommand(journalCmd)
}

func runJournalList(_ *cobra.Command, _ []string) error {
	return withBakery(func(_ context.Context, b *bakery) error {
		printLines(companion.JournalLines(b.journal.List(), time.Now()))
		return nil
	})
}

func runJournalExport(_ *cobra.Command, _ []string) error {
	return withBakery(func(_ context.Context, b *bakery) error {
		data, name, err := b.journal.Export()
		if err != nil {
			return fmt.Errorf("exporting journal: %w", err)
		}
		path := filepath.Join(exportDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("Exported %d bakes to %s\n", b.journal.Len(), path)
		return nil
	})
}

func runJournalImport(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	return withBakery(func(ctx context.Context, b *bakery) error {
		if err := b.journal.Import(ctx, data); err != nil {
			return fmt.Errorf("importing %s: %w", args[0], err)
		}
		fmt.Printf("Imported %d bakes\n", b.journal.Len())
		return nil
	})
}

func runJournalDelete(_ *cobra.Command, args []string) error {
	return withBakery(func(ctx context.Context, b *bakery) error {
		id, err := resolveBakeID(b.journal.List(), args[0])
		if err != nil {
			return err
		}
		if err := b.journal.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted bake %s\n", id)
		return nil
	})
}

func runJournalAdd(_ *cobra.Command, _ []string) error {
	return withBakery(func(ctx context.Context, b *bakery) error {
		entry, err := b.journal.Finalize(ctx, b.engine.Snapshot(), addRating, addNotes, addImage)
		if err != nil {
			return err
		}
		printLines(companion.JournalLines([]domain.BakeLog{entry}, entry.Date))
		return nil
	})
}

// resolveBakeID accepts a full id or a prefix that matches exactly one bake.
func resolveBakeID(logs []domain.BakeLog, prefix string) (string, error) {
	var matches []string
	for _, l := range logs {
		if l.ID == prefix {
			return l.ID, nil
		}
		if strings.HasPrefix(l.ID, prefix) {
			matches = append(matches, l.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("bake %q: %w", prefix, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("bake prefix %q matches %d bakes", prefix, len(matches))
	}
}
