package services

import (
	"fmt"
	"sort"
	"strings"

	"leaderboard-scraper/models"
	"leaderboard-scraper/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(entries []*models.Entry) *models.InsightReport {
	report := &models.InsightReport{}

	if len(entries) == 0 {
		return report
	}

	report.TotalEntries = len(entries)

	var pointed []*models.Entry
	var referralPoints float64

	for _, e := range entries {
		if e.Points != nil {
			report.TotalPoints += *e.Points
			pointed = append(pointed, e)
		}
		if e.Referrals != nil {
			report.TotalReferrals += *e.Referrals
		}
		if e.ReferralPoints != nil {
			referralPoints += *e.ReferralPoints
		}
	}

	if len(pointed) > 0 {
		report.AveragePoints = round2(report.TotalPoints / float64(len(pointed)))
	}
	if report.TotalPoints > 0 {
		report.ReferralShare = round2(referralPoints / report.TotalPoints * 100)
	}
	report.TotalPoints = round2(report.TotalPoints)

	// Top 5 by points
	sort.Slice(pointed, func(i, j int) bool {
		return *pointed[i].Points > *pointed[j].Points
	})
	if len(pointed) > 5 {
		report.TopOwners = pointed[:5]
	} else {
		report.TopOwners = pointed
	}

	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 LEADERBOARD SCRAPE INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total entries scraped : \033[1m%d\033[0m\n", r.TotalEntries)
	fmt.Printf("  Total referrals       : \033[1m%d\033[0m\n", r.TotalReferrals)
	fmt.Println()

	// Points stats
	fmt.Printf("\033[1;33m  Points Statistics\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.TotalPoints > 0 {
		fmt.Printf("  Total points    : \033[1;32m%.2f\033[0m\n", r.TotalPoints)
		fmt.Printf("  Average points  : \033[1;32m%.2f\033[0m\n", r.AveragePoints)
		fmt.Printf("  Referral share  : \033[1;32m%.2f%%\033[0m\n", r.ReferralShare)
	} else {
		fmt.Printf("  No points data available\n")
	}
	fmt.Println()

	// Top owners
	fmt.Printf("\033[1;33m  Top 5 Owners by Points\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopOwners) == 0 {
		fmt.Printf("  No scored entries found\n")
	} else {
		for i, e := range r.TopOwners {
			owner := truncate(e.Owner, 38)
			fmt.Printf("  \033[1m%d.\033[0m %-40s \033[1;32m%.0f pts\033[0m\n",
				i+1, owner, *e.Points)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
