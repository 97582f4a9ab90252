package main

import (
	"fmt"
	"os"

	"leaderboard-scraper/config"
	"leaderboard-scraper/scraper/leaderboard"
	"leaderboard-scraper/services"
	"leaderboard-scraper/storage"
	"leaderboard-scraper/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.Debug)

	logger.Info("=== Leaderboard Scraping System starting ===")

	if cfg.LeaderboardURL == "" {
		logger.Error("LEADERBOARD_URL is not set. Exiting.")
		os.Exit(1)
	}

	logger.Info("Config — url: %s | wait timeout: %s | output: %s",
		cfg.LeaderboardURL, cfg.WaitTimeout, cfg.CSVOutputPath)

	scraper := leaderboard.New(cfg, logger)
	rawRows := scraper.Scrape()

	if len(rawRows) == 0 {
		logger.Error("No data collected — skipping projection and persistence.")
		os.Exit(1)
	}

	logger.Info("Collected %d raw rows — projecting to typed table", len(rawRows))

	projector := services.NewProjector(logger)
	entries := projector.Project(rawRows)

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}

	type sink struct {
		name   string
		writer storage.EntryWriter
	}
	sinks := []sink{{"CSV (" + cfg.CSVOutputPath + ")", csvWriter}}

	var pgWriter *storage.PostgresWriter
	if cfg.PostgresEnabled {
		pgWriter, err = storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("PostgreSQL unavailable — skipping DB persistence: %v", err)
			pgWriter = nil
		} else {
			defer pgWriter.Close()
			sinks = append(sinks, sink{"PostgreSQL (table: leaderboard)", pgWriter})
		}
	}

	for _, sink := range sinks {
		if err := sink.writer.Write(entries); err != nil {
			logger.Error("%s write failed: %v", sink.name, err)
		} else {
			logger.Info("Saved %d rows to %s", len(entries), sink.name)
		}
	}

	if pgWriter != nil {
		if dbEntries, err := pgWriter.FetchAll(); err != nil {
			logger.Error("Failed to fetch entries from DB for insights: %v", err)
		} else {
			entries = dbEntries
		}
	}

	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(entries)
	insightSvc.Print(report)

	fmt.Printf("  Done. Leaderboard CSV → %s\n\n", cfg.CSVOutputPath)
}
