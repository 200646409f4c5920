package uptime

import (
	"math"
	"sort"
	"time"
)

// interval is one clipped downtime span within the reporting window
type interval struct {
	start time.Time
	end   time.Time
}

// mergeIntervals unions overlapping or touching intervals so concurrent
// outages are not double-counted. Input order does not matter; output is
// sorted by start and pairwise disjoint.
func mergeIntervals(intervals []interval) []interval {
	if len(intervals) <= 1 {
		return intervals
	}

	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].start.Before(intervals[j].start)
	})

	merged := []interval{intervals[0]}
	for _, iv := range intervals[1:] {
		last := &merged[len(merged)-1]
		if !iv.start.After(last.end) {
			if iv.end.After(last.end) {
				last.end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}

	return merged
}

// totalSeconds sums the duration of a disjoint interval set
func totalSeconds(intervals []interval) float64 {
	var total float64
	for _, iv := range intervals {
		total += iv.end.Sub(iv.start).Seconds()
	}
	return total
}

// roundHalfUp rounds to two decimals with exact halves going up
func roundHalfUp(value float64) float64 {
	return math.Floor(value*100+0.5) / 100
}
