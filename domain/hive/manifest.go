package hive

import (
	"sort"
	"time"
)

// DayLayout is the storage form of a history-bucket date. Buckets are matched
// by exact date equality, so the layout must not carry time-of-day.
const DayLayout = "2006-01-02"

// DayOf returns the bucket date for an instant, in UTC.
func DayOf(t time.Time) string { return t.UTC().Format(DayLayout) }

// DayBucket is one calendar day's counter in a manifest history list.
type DayBucket struct {
	Date  string `json:"Date"`
	Count int    `json:"Count"`
}

// Manifest is the durable record of a hive: identity, namespace, cumulative
// counters and the time-bucketed history lists. History lists hold at most
// one entry per calendar date.
type Manifest struct {
	Key                     string      `json:"_key,omitempty"`
	ID                      string      `json:"_id,omitempty"`
	Namespace               Namespace   `json:"Namespace"`
	Title                   string      `json:"Title"`
	Description             string      `json:"Description"`
	DateCreated             time.Time   `json:"DateCreated"`
	AllowDanglingPoints     bool        `json:"AllowDanglingPoints"`
	TotalParticipation      int         `json:"TotalParticipation"`
	TotalPoints             int         `json:"TotalPoints"`
	DailyParticipation      []DayBucket `json:"DailyParticipation"`
	DailyPointCount         []DayBucket `json:"DailyPointCount"`
	TimeOfLastParticipation time.Time   `json:"TimeOfLastParticipation"`
}

// bumpBucket increments the bucket for date, appending a new one if the date
// has no entry yet.
func bumpBucket(buckets []DayBucket, date string) []DayBucket {
	for i := range buckets {
		if buckets[i].Date == date {
			buckets[i].Count++
			return buckets
		}
	}
	return append(buckets, DayBucket{Date: date, Count: 1})
}

// BumpParticipation increments the participation bucket for date and refreshes
// the last-participation time. The cumulative total moves only for a first-ever
// participant, which the caller determines from the participation edge.
func (m *Manifest) BumpParticipation(date string, now time.Time, newParticipant bool) {
	m.DailyParticipation = bumpBucket(m.DailyParticipation, date)
	if newParticipant {
		m.TotalParticipation++
	}
	m.TimeOfLastParticipation = now
}

// BumpPointCount increments the point-count bucket for date and the cumulative
// point total.
func (m *Manifest) BumpPointCount(date string) {
	m.DailyPointCount = bumpBucket(m.DailyPointCount, date)
	m.TotalPoints++
}

// Decrement reverses cumulative counters after a deletion. Totals never go
// below zero.
func (m *Manifest) Decrement(points, participation int) {
	m.TotalPoints -= points
	if m.TotalPoints < 0 {
		m.TotalPoints = 0
	}
	m.TotalParticipation -= participation
	if m.TotalParticipation < 0 {
		m.TotalParticipation = 0
	}
}

// Compact clips both history lists to the retentionDays most recent entries,
// ordered oldest to newest. Reports whether anything was trimmed, so the
// caller knows to persist the repaired manifest.
func (m *Manifest) Compact(retentionDays int) bool {
	trimmed := false
	if clipped, ok := clipHistory(m.DailyParticipation, retentionDays); ok {
		m.DailyParticipation = clipped
		trimmed = true
	}
	if clipped, ok := clipHistory(m.DailyPointCount, retentionDays); ok {
		m.DailyPointCount = clipped
		trimmed = true
	}
	return trimmed
}

func clipHistory(buckets []DayBucket, keep int) ([]DayBucket, bool) {
	if len(buckets) <= keep {
		return buckets, false
	}
	sorted := make([]DayBucket, len(buckets))
	copy(sorted, buckets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
	return sorted[len(sorted)-keep:], true
}

// HistoryWindow produces one count per day in [today-days+1, today], oldest
// first, filling dates with no bucket with zero.
func HistoryWindow(buckets []DayBucket, today time.Time, days int) []int {
	byDate := make(map[string]int, len(buckets))
	for _, b := range buckets {
		byDate[b.Date] = b.Count
	}

	counts := make([]int, days)
	day := today.UTC().AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		counts[i] = byDate[DayOf(day)]
		day = day.AddDate(0, 0, 1)
	}
	return counts
}
