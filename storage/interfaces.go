package storage

import "leaderboard-scraper/models"

// EntryWriter is the interface any storage backend must satisfy.
// main selects its persistence sinks through it.
type EntryWriter interface {
	Write(entries []*models.Entry) error
}

var (
	_ EntryWriter = (*CSVWriter)(nil)
	_ EntryWriter = (*PostgresWriter)(nil)
)
