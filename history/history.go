package history

// This file contains shared history utilities for recording and loading
// batch runs.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mtrbatch/mtrbatch/model"
)

const dirName = ".mtrbatch"

type Entry struct {
	Batch    model.Batch
	FullPath string
}

// Root returns the history directory kept under a results directory.
func Root(resultsDir string) string {
	return filepath.Join(resultsDir, dirName)
}

// Record writes the batch's metadata under the history root as
// <root>/<timestamp>-<shortid>/batch.json and returns the run directory.
func Record(batch *model.Batch) (string, error) {
	timestamp := batch.Timestamp.Format("20060102-150405")
	shortID := batch.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	runDir := filepath.Join(Root(batch.ResultsDir), fmt.Sprintf("%s-%s", timestamp, shortID))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}

	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal batch: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "batch.json"), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write batch metadata: %w", err)
	}

	return runDir, nil
}

// LoadEntries loads all batch entries from the history root.
func LoadEntries(logger zerolog.Logger, root string) ([]Entry, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, fmt.Errorf("no batch runs found in %s", root)
	}

	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			batchPath := filepath.Join(path, "batch.json")
			if _, err := os.Stat(batchPath); err == nil {
				batch, err := parseBatchJSON(batchPath)
				if err != nil {
					logger.Warn().Err(err).Str("path", batchPath).Msg("Failed to parse batch.json")
					return nil
				}

				entries = append(entries, Entry{
					Batch:    batch,
					FullPath: path,
				})
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk history directory: %w", err)
	}

	return entries, nil
}

func parseBatchJSON(path string) (model.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Batch{}, err
	}

	var batch model.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return model.Batch{}, err
	}

	return batch, nil
}
