package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"leaderboard-scraper/models"
)

// PostgresWriter persists the typed leaderboard to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	// Numeric columns are nullable: an unparseable cell is stored as
	// NULL, mirroring the missing-value semantics of the projection.
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS leaderboard (
			id              SERIAL PRIMARY KEY,
			rank            BIGINT,
			points          NUMERIC(20,2),
			referrals       BIGINT,
			referral_points NUMERIC(20,2),
			owner           TEXT        NOT NULL,
			scraped_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_leaderboard_rank   ON leaderboard(rank);
		CREATE INDEX IF NOT EXISTS idx_leaderboard_points ON leaderboard(points);
		CREATE INDEX IF NOT EXISTS idx_leaderboard_owner  ON leaderboard(owner);
	`)
	return err
}

// Clear deletes all existing entries from the table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM leaderboard")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts ALL entries, clearing old data first so the
// table always reflects the latest run.
func (pw *PostgresWriter) Write(entries []*models.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(entries); i += batchSize {
		end := i + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := pw.insertBatch(entries[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.Entry) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*5)

	for idx, e := range batch {
		base := idx * 5
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5))
		valueArgs = append(valueArgs,
			e.Rank, e.Points, e.Referrals, e.ReferralPoints, e.Owner)
	}

	query := fmt.Sprintf(`
		INSERT INTO leaderboard (rank, points, referrals, referral_points, owner)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored entries — used by the insight service
// when PostgreSQL persistence is enabled.
func (pw *PostgresWriter) FetchAll() ([]*models.Entry, error) {
	rows, err := pw.db.Query(`
		SELECT rank, points, referrals, referral_points, owner
		FROM leaderboard
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var entries []*models.Entry
	for rows.Next() {
		e := &models.Entry{}
		if err := rows.Scan(
			&e.Rank, &e.Points, &e.Referrals, &e.ReferralPoints, &e.Owner,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
