package stats

import (
	"math"
	"sort"
	"time"

	"github.com/MikeSquared-Agency/vibecheck/internal/chatlog"
)

// Percentile returns the p-th quantile (0 <= p <= 1) of values, interpolating
// linearly between the two closest ranks at position (n-1)*p. An empty
// population yields 0.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := float64(len(sorted)-1) * p
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// MostActiveDate returns the calendar date with the most timestamped records.
// Ties go to the earliest date. ok is false when no record has a timestamp.
func MostActiveDate(records []chatlog.Record) (date time.Time, ok bool) {
	counts := make(map[time.Time]int)
	for _, r := range records {
		if !r.HasTimestamp() {
			continue
		}
		y, m, d := r.Timestamp.Date()
		counts[time.Date(y, m, d, 0, 0, 0, 0, time.UTC)]++
	}

	best := 0
	for day, n := range counts {
		if n > best || (n == best && day.Before(date)) {
			date, best = day, n
		}
	}
	return date, best > 0
}

// DistinctAuthors counts the distinct authors across records.
func DistinctAuthors(records []chatlog.Record) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.Author] = struct{}{}
	}
	return len(seen)
}
