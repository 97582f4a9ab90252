package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"leaderboard-scraper/models"
)

func testEntries() []*models.Entry {
	rank1, rank2 := int64(1), int64(2)
	pts1, pts2 := float64(12345), float64(90)
	refs1 := int64(3)
	refPts1 := 1200.5

	return []*models.Entry{
		{Rank: &rank1, Points: &pts1, Referrals: &refs1, ReferralPoints: &refPts1, Owner: "alice"},
		{Rank: &rank2, Points: &pts2, Referrals: nil, ReferralPoints: nil, Owner: "bob"},
	}
}

func TestCSVWriterOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points_leaderboard.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	if err := w.Write(testEntries()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	want := "Rank,Points,Referrals,Points from Referrals,Owner\n" +
		"1,12345,3,1200.5,alice\n" +
		"2,90,,,bob\n"
	if string(data) != want {
		t.Errorf("CSV output mismatch:\ngot:\n%s\nwant:\n%s", data, want)
	}
}

func TestCSVWriterOverwriteIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points_leaderboard.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	entries := testEntries()
	if err := w.Write(entries); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if err := w.Write(entries); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("writing the same dataset twice must produce byte-identical files")
	}
}

func TestCSVWriterEmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points_leaderboard.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	if err := w.Write(nil); err != nil {
		t.Fatalf("Write with no entries: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "Rank,Points,Referrals,Points from Referrals,Owner\n"
	if string(data) != want {
		t.Errorf("empty dataset must yield a header-only file, got:\n%s", data)
	}
}

func TestCSVWriterThroughEntryWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points_leaderboard.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	var sink EntryWriter = w
	if err := sink.Write(testEntries()); err != nil {
		t.Fatalf("Write via EntryWriter: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestCSVWriterCreatesOutputDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "points_leaderboard.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	if err := w.Write(testEntries()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}
