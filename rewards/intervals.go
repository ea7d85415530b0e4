package rewards

import (
	"slices"
)

// Interval is a stretch of time over which both the user's LP balance and
// the pool's snapshot segment are constant. SnapshotIndex is the global
// snapshot that closes the segment, -1 for the open tail after the last one.
type Interval struct {
	Start         uint64
	End           uint64
	SnapshotIndex int
	UserLp        uint64
}

// Intervals splits [cursorStart, min(now, endAt)] at every global snapshot
// and every user LP change. "now" acts as a trailing snapshot so the last
// partial interval comes out of the same loop as the others.
func Intervals(cursorStart, now, endAt, currentUserLp uint64, userSnapshots []UserLpSnapshot, globalSnapshots []Snapshot) []Interval {
	stop := min(now, endAt)
	if cursorStart >= stop {
		return nil
	}

	var bounds []uint64
	for _, s := range globalSnapshots {
		if s.Timestamp > cursorStart && s.Timestamp < stop {
			bounds = append(bounds, s.Timestamp)
		}
	}
	for _, s := range userSnapshots {
		if s.Timestamp > cursorStart && s.Timestamp < stop {
			bounds = append(bounds, s.Timestamp)
		}
	}
	slices.Sort(bounds)
	bounds = slices.Compact(append(bounds, stop))

	history := GlobalUserLpRecentChange{LpSnapshots: userSnapshots}
	out := make([]Interval, 0, len(bounds))
	start, next := cursorStart, 0
	for _, end := range bounds {
		for next < len(globalSnapshots) && globalSnapshots[next].Timestamp < end {
			next++
		}
		index := next
		if index == len(globalSnapshots) {
			index = -1
		}
		out = append(out, Interval{
			Start:         start,
			End:           end,
			SnapshotIndex: index,
			UserLp:        history.lpAt(start, currentUserLp),
		})
		start = end
	}
	return out
}
