package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"leaderboard-scraper/models"
)

// header matches the five-column leaderboard schema.
var header = []string{"Rank", "Points", "Referrals", "Points from Referrals", "Owner"}

// CSVWriter persists the typed leaderboard as delimited text. Each
// Write truncates the target file, so repeated runs over the same
// dataset produce byte-identical output.
type CSVWriter struct {
	path string
}

// NewCSVWriter creates a CSVWriter targeting the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("csv: create output dir: %w", err)
		}
	}
	return &CSVWriter{path: path}, nil
}

// Write overwrites the file with the header row plus one row per
// entry. Numeric cells are rendered plainly (no thousands separators);
// missing values become empty cells.
func (c *CSVWriter) Write(entries []*models.Entry) error {
	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", c.path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, e := range entries {
		row := []string{
			formatInt(e.Rank),
			formatNumber(e.Points),
			formatInt(e.Referrals),
			formatNumber(e.ReferralPoints),
			e.Owner,
		}
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: flush: %w", err)
	}
	return f.Close()
}

func formatInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
