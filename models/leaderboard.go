package models

// RawRow holds one leaderboard row exactly as read from the table body,
// before any numeric coercion. Cell text is trimmed but otherwise
// untouched (thousands separators and all).
type RawRow struct {
	Rank           string
	Points         string
	Referrals      string
	ReferralPoints string
	Owner          string
}

// Entry is the typed projection of a RawRow. Numeric fields are
// pointers so an unparseable cell becomes a missing value instead of
// dropping the whole row.
type Entry struct {
	Rank           *int64
	Points         *float64
	Referrals      *int64
	ReferralPoints *float64
	Owner          string
}

// InsightReport holds the computed summary over the typed leaderboard.
type InsightReport struct {
	TotalEntries   int
	TotalPoints    float64
	AveragePoints  float64
	TotalReferrals int64
	ReferralShare  float64 // percentage of all points earned through referrals
	TopOwners      []*Entry
}
