package services

import (
	"strconv"
	"strings"

	"leaderboard-scraper/models"
	"leaderboard-scraper/utils"
)

// Projector applies the fixed five-column schema to raw scraped rows,
// coercing the numeric columns into typed values.
type Projector struct {
	logger *utils.Logger
}

// NewProjector creates a Projector with the given logger.
func NewProjector(logger *utils.Logger) *Projector {
	return &Projector{logger: logger}
}

// Project converts raw rows into typed entries. No row is dropped at
// this stage: a cell that fails to parse becomes a missing value (nil)
// and the rest of the row is kept.
func (p *Projector) Project(rows []models.RawRow) []*models.Entry {
	if len(rows) == 0 {
		p.logger.Warn("[projector] No rows to project")
		return nil
	}

	entries := make([]*models.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, &models.Entry{
			Rank:           parseInt(r.Rank),
			Points:         parseNumber(r.Points),
			Referrals:      parseInt(r.Referrals),
			ReferralPoints: parseNumber(r.ReferralPoints),
			Owner:          r.Owner,
		})
	}

	p.logger.Info("[projector] Projected %d rows into typed entries", len(entries))
	return entries
}

func parseInt(raw string) *int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// parseNumber strips thousands separators before parsing, so "12,345"
// comes out as 12345.
func parseNumber(raw string) *float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &f
}
