package cli

// This file contains the list command for displaying previous batch runs.

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/mtrbatch/mtrbatch/history"
	"github.com/mtrbatch/mtrbatch/model"
)

func (a *App) list(ctx *cli.Context) error {
	resultsDir := ctx.String("results-dir")
	filterPath := ctx.String("path")
	limit := ctx.Int("limit")

	entries, err := history.LoadEntries(a.logger, history.Root(resultsDir))
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	var filtered []history.Entry
	for _, entry := range entries {
		if filterPath == "" || strings.Contains(entry.Batch.Collection, filterPath) {
			filtered = append(filtered, entry)
		}
	}

	if len(filtered) == 0 {
		if filterPath != "" {
			fmt.Printf("No batch runs found matching path: %s\n", filterPath)
		} else {
			fmt.Println("No batch runs found")
		}
		return nil
	}

	// Sort by timestamp (newest first)
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Batch.Timestamp.After(filtered[j].Batch.Timestamp)
	})

	if limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "TIME", "DURATION", "EXIT", "COLLECTION", "PASS", "FAIL", "FATAL"})
	for _, entry := range filtered {
		b := entry.Batch

		var pass, fail, fatal int
		for _, res := range b.Invocations {
			switch res.Outcome {
			case model.OutcomeSuccess:
				pass++
			case model.OutcomeTestFailure:
				fail++
			case model.OutcomeFatal:
				fatal++
			}
		}

		shortID := b.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}

		row := table.Row{
			shortID,
			b.Timestamp.Format("2006-01-02 15:04:05"),
			b.Duration.Round(time.Millisecond),
			b.ExitCode,
			b.Collection,
			pass,
			fail,
			fatal,
		}
		t.AppendRow(row)
	}
	t.SetStyle(table.StyleLight)
	t.Render()

	fmt.Println("\nBatch details: cat <history dir>/batch.json")
	return nil
}
