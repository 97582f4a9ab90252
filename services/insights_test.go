package services

import (
	"testing"

	"leaderboard-scraper/models"
)

func sampleEntries() []*models.Entry {
	return []*models.Entry{
		{Rank: int64Ptr(1), Points: float64Ptr(1000), Referrals: int64Ptr(4), ReferralPoints: float64Ptr(200), Owner: "alice"},
		{Rank: int64Ptr(2), Points: float64Ptr(600), Referrals: int64Ptr(2), ReferralPoints: float64Ptr(100), Owner: "bob"},
		{Rank: int64Ptr(3), Points: float64Ptr(400), Referrals: int64Ptr(0), ReferralPoints: float64Ptr(0), Owner: "carol"},
		{Rank: int64Ptr(4), Points: nil, Referrals: int64Ptr(1), ReferralPoints: float64Ptr(50), Owner: "dave"},
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleEntries())
	if r.TotalEntries != 4 {
		t.Errorf("TotalEntries: got %d, want 4", r.TotalEntries)
	}
	if r.TotalReferrals != 7 {
		t.Errorf("TotalReferrals: got %d, want 7", r.TotalReferrals)
	}
}

func TestInsightPoints(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleEntries())
	if r.TotalPoints != 2000 {
		t.Errorf("TotalPoints: got %.2f, want 2000", r.TotalPoints)
	}
	// Average over the 3 entries that have a points value.
	wantAvg := 666.67
	if r.AveragePoints != wantAvg {
		t.Errorf("AveragePoints: got %.2f, want %.2f", r.AveragePoints, wantAvg)
	}
	// 350 referral points out of 2000 total.
	if r.ReferralShare != 17.5 {
		t.Errorf("ReferralShare: got %.2f, want 17.5", r.ReferralShare)
	}
}

func TestInsightTopOwners(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleEntries())
	if len(r.TopOwners) != 3 {
		t.Fatalf("TopOwners len: got %d, want 3", len(r.TopOwners))
	}
	if r.TopOwners[0].Owner != "alice" {
		t.Errorf("TopOwners[0]: got %q, want %q", r.TopOwners[0].Owner, "alice")
	}
	if r.TopOwners[2].Owner != "carol" {
		t.Errorf("TopOwners[2]: got %q, want %q", r.TopOwners[2].Owner, "carol")
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(nil)
	if r.TotalEntries != 0 {
		t.Errorf("expected 0 total entries for empty input")
	}
	if len(r.TopOwners) != 0 {
		t.Errorf("expected no top owners for empty input")
	}
}
