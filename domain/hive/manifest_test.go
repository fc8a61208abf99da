package hive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, _ := time.Parse(DayLayout, s)
	return t
}

func TestBumpParticipation(t *testing.T) {
	m := &Manifest{}
	now := time.Now().UTC()

	m.BumpParticipation("2026-08-01", now, true)
	m.BumpParticipation("2026-08-01", now, false)
	m.BumpParticipation("2026-08-02", now, true)

	assert.Equal(t, 2, m.TotalParticipation)
	assert.Equal(t, []DayBucket{
		{Date: "2026-08-01", Count: 2},
		{Date: "2026-08-02", Count: 1},
	}, m.DailyParticipation)
	assert.Equal(t, now, m.TimeOfLastParticipation)
}

func TestBumpPointCount(t *testing.T) {
	m := &Manifest{}

	m.BumpPointCount("2026-08-01")
	m.BumpPointCount("2026-08-01")

	assert.Equal(t, 2, m.TotalPoints)
	assert.Equal(t, []DayBucket{{Date: "2026-08-01", Count: 2}}, m.DailyPointCount)
}

func TestDecrementFloorsAtZero(t *testing.T) {
	m := &Manifest{TotalPoints: 1, TotalParticipation: 0}

	m.Decrement(2, 1)

	assert.Equal(t, 0, m.TotalPoints)
	assert.Equal(t, 0, m.TotalParticipation)
}

func TestCompactTrimsOldestBuckets(t *testing.T) {
	m := &Manifest{
		DailyParticipation: []DayBucket{
			{Date: "2026-08-03", Count: 3},
			{Date: "2026-08-01", Count: 1},
			{Date: "2026-08-02", Count: 2},
		},
		DailyPointCount: []DayBucket{{Date: "2026-08-01", Count: 1}},
	}

	trimmed := m.Compact(2)

	assert.True(t, trimmed)
	assert.Equal(t, []DayBucket{
		{Date: "2026-08-02", Count: 2},
		{Date: "2026-08-03", Count: 3},
	}, m.DailyParticipation)
	// Point history was already within retention, so it is untouched.
	assert.Equal(t, []DayBucket{{Date: "2026-08-01", Count: 1}}, m.DailyPointCount)
}

func TestCompactNoopWithinRetention(t *testing.T) {
	m := &Manifest{
		DailyParticipation: []DayBucket{{Date: "2026-08-01", Count: 1}},
	}

	assert.False(t, m.Compact(30))
}

func TestHistoryWindowFillsMissingDays(t *testing.T) {
	buckets := []DayBucket{
		{Date: "2026-08-27", Count: 2},
		{Date: "2026-08-29", Count: 5},
	}

	counts := HistoryWindow(buckets, day("2026-08-29"), 5)

	assert.Equal(t, []int{0, 0, 2, 0, 5}, counts)
}

func TestHistoryWindowEmpty(t *testing.T) {
	counts := HistoryWindow(nil, day("2026-08-29"), 3)

	assert.Equal(t, []int{0, 0, 0}, counts)
}
