// Package planner holds the staffing decision rules: ranking staff for an
// event by future workload and selecting an equitable set for automatic
// assignment. It works on in-memory records so the rules can be exercised
// without a database.
package planner

import (
	"errors"
	"sort"

	"colorin/internal/model"
)

var (
	ErrNoEligibleStaff   = errors.New("no eligible staff")
	ErrInsufficientStaff = errors.New("insufficient staff")
)

// Recommendation is one ranked entry for an event. Recommended is the inverse
// of AlreadyAssigned: staff already on the event are never re-recommended.
type Recommendation struct {
	StaffID         int64  `json:"staff_id"`
	Name            string `json:"name"`
	FutureCount     int    `json:"future_count"`
	AlreadyAssigned bool   `json:"already_assigned"`
	Recommended     bool   `json:"recommended"`
}

// FillCounts guarantees outer-join semantics: every staff member gets an
// entry, defaulting to 0 when the aggregate produced no row.
func FillCounts(staff []model.Staff, counts map[int64]int) map[int64]int {
	filled := make(map[int64]int, len(staff))
	for _, s := range staff {
		filled[s.ID] = counts[s.ID]
	}
	return filled
}

// Rank orders active staff for an event ascending by (already assigned,
// future count, name). The name tie-break makes the order total, so repeated
// calls over unchanged data return identical output.
func Rank(staff []model.Staff, counts map[int64]int, assigned map[int64]bool) []Recommendation {
	counts = FillCounts(staff, counts)

	recs := make([]Recommendation, 0, len(staff))
	for _, s := range staff {
		already := assigned[s.ID]
		recs = append(recs, Recommendation{
			StaffID:         s.ID,
			Name:            s.Name,
			FutureCount:     counts[s.ID],
			AlreadyAssigned: already,
			Recommended:     !already,
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.AlreadyAssigned != b.AlreadyAssigned {
			return !a.AlreadyAssigned
		}
		if a.FutureCount != b.FutureCount {
			return a.FutureCount < b.FutureCount
		}
		return a.Name < b.Name
	})
	return recs
}

// Available counts the entries not yet assigned to the event.
func Available(recs []Recommendation) int {
	n := 0
	for _, r := range recs {
		if !r.AlreadyAssigned {
			n++
		}
	}
	return n
}

// Select picks the count least-loaded active staff for automatic assignment,
// ascending by (future count, staff id). The id tie-break differs from Rank's
// name tie-break on purpose: selection stays stable under identical workload
// even when names collide.
func Select(staff []model.Staff, counts map[int64]int, count int) ([]model.Staff, error) {
	if len(staff) == 0 {
		return nil, ErrNoEligibleStaff
	}
	if count > len(staff) {
		return nil, ErrInsufficientStaff
	}
	counts = FillCounts(staff, counts)

	ordered := make([]model.Staff, len(staff))
	copy(ordered, staff)
	sort.Slice(ordered, func(i, j int) bool {
		ci, cj := counts[ordered[i].ID], counts[ordered[j].ID]
		if ci != cj {
			return ci < cj
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered[:count], nil
}

// StaffLoad is one row of the current future-workload distribution.
type StaffLoad struct {
	StaffID     int64  `json:"staff_id"`
	Name        string `json:"name"`
	FutureCount int    `json:"future_count"`
}

// Analysis summarizes the spread of the distribution. The distribution is
// equitable when no active staff member is more than one future event ahead
// of another.
type Analysis struct {
	Min         int  `json:"min"`
	Max         int  `json:"max"`
	Diff        int  `json:"diff"`
	IsEquitable bool `json:"is_equitable"`
}

// Analyze reports min/max/spread over the distribution. ok is false when
// there is nothing to analyze: no active staff, or none of them holds a
// future assignment. Callers must render that as a message shape, not an
// error.
func Analyze(dist []StaffLoad) (Analysis, bool) {
	if len(dist) == 0 {
		return Analysis{}, false
	}
	min, max, total := dist[0].FutureCount, dist[0].FutureCount, 0
	for _, d := range dist {
		if d.FutureCount < min {
			min = d.FutureCount
		}
		if d.FutureCount > max {
			max = d.FutureCount
		}
		total += d.FutureCount
	}
	if total == 0 {
		return Analysis{}, false
	}
	diff := max - min
	return Analysis{Min: min, Max: max, Diff: diff, IsEquitable: diff <= 1}, true
}
