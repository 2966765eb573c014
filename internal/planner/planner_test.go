package planner

import (
	"errors"
	"reflect"
	"testing"

	"colorin/internal/model"
)

func staffList() []model.Staff {
	return []model.Staff{
		{ID: 1, Name: "Ana", Active: true},
		{ID: 2, Name: "Bruno", Active: true},
		{ID: 3, Name: "Carla", Active: true},
	}
}

func TestFillCountsDefaultsMissingToZero(t *testing.T) {
	staff := staffList()
	counts := map[int64]int{2: 4}

	filled := FillCounts(staff, counts)

	if len(filled) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(filled))
	}
	if filled[1] != 0 || filled[3] != 0 {
		t.Errorf("expected zero counts for staff without assignments, got %v", filled)
	}
	if filled[2] != 4 {
		t.Errorf("expected count 4 for staff 2, got %d", filled[2])
	}
}

func TestRankOrdersByAssignedThenCountThenName(t *testing.T) {
	staff := []model.Staff{
		{ID: 1, Name: "Carla", Active: true},
		{ID: 2, Name: "Ana", Active: true},
		{ID: 3, Name: "Bruno", Active: true},
		{ID: 4, Name: "Diego", Active: true},
	}
	counts := map[int64]int{1: 1, 2: 1, 3: 0}
	assigned := map[int64]bool{4: true}

	recs := Rank(staff, counts, assigned)

	wantOrder := []int64{3, 2, 1, 4}
	for i, want := range wantOrder {
		if recs[i].StaffID != want {
			t.Fatalf("position %d: want staff %d, got %d (%+v)", i, want, recs[i].StaffID, recs)
		}
	}
	if recs[3].Recommended || !recs[3].AlreadyAssigned {
		t.Errorf("assigned staff must not be recommended: %+v", recs[3])
	}
	if !recs[0].Recommended {
		t.Errorf("unassigned staff must be recommended: %+v", recs[0])
	}
}

func TestRankIsDeterministic(t *testing.T) {
	staff := staffList()
	counts := map[int64]int{1: 2, 2: 2, 3: 2}

	first := Rank(staff, counts, nil)
	second := Rank(staff, counts, nil)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("rank over unchanged data must be identical:\n%+v\n%+v", first, second)
	}
	// equal counts fall back to name order
	if first[0].Name != "Ana" || first[1].Name != "Bruno" || first[2].Name != "Carla" {
		t.Errorf("expected name tie-break, got %+v", first)
	}
}

func TestSelectPicksLeastLoaded(t *testing.T) {
	staff := staffList()
	counts := map[int64]int{1: 0, 2: 2, 3: 1}

	picked, err := Select(staff, counts, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(picked) != 2 || picked[0].ID != 1 || picked[1].ID != 3 {
		t.Errorf("expected staff 1 and 3, got %+v", picked)
	}
}

func TestSelectTieBreaksByID(t *testing.T) {
	staff := staffList()

	picked, err := Select(staff, nil, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if picked[0].ID != 1 || picked[1].ID != 2 {
		t.Errorf("expected lowest ids on equal counts, got %+v", picked)
	}
}

func TestSelectNoEligibleStaff(t *testing.T) {
	_, err := Select(nil, nil, 1)
	if !errors.Is(err, ErrNoEligibleStaff) {
		t.Errorf("want ErrNoEligibleStaff, got %v", err)
	}
}

func TestSelectInsufficientStaff(t *testing.T) {
	_, err := Select(staffList(), nil, 4)
	if !errors.Is(err, ErrInsufficientStaff) {
		t.Errorf("want ErrInsufficientStaff, got %v", err)
	}
}

func TestAvailableCountsUnassigned(t *testing.T) {
	recs := []Recommendation{
		{StaffID: 1, AlreadyAssigned: false},
		{StaffID: 2, AlreadyAssigned: true},
		{StaffID: 3, AlreadyAssigned: false},
	}
	if got := Available(recs); got != 2 {
		t.Errorf("want 2, got %d", got)
	}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name   string
		dist   []StaffLoad
		want   Analysis
		wantOK bool
	}{
		{
			name:   "empty distribution",
			dist:   nil,
			wantOK: false,
		},
		{
			name: "all zero counts",
			dist: []StaffLoad{
				{StaffID: 1, FutureCount: 0},
				{StaffID: 2, FutureCount: 0},
			},
			wantOK: false,
		},
		{
			name: "equitable at diff one",
			dist: []StaffLoad{
				{StaffID: 1, FutureCount: 2},
				{StaffID: 2, FutureCount: 3},
			},
			want:   Analysis{Min: 2, Max: 3, Diff: 1, IsEquitable: true},
			wantOK: true,
		},
		{
			name: "inequitable at diff two",
			dist: []StaffLoad{
				{StaffID: 1, FutureCount: 0},
				{StaffID: 2, FutureCount: 2},
			},
			want:   Analysis{Min: 0, Max: 2, Diff: 2, IsEquitable: false},
			wantOK: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Analyze(tc.dist)
			if ok != tc.wantOK {
				t.Fatalf("ok: want %v, got %v", tc.wantOK, ok)
			}
			if ok && got != tc.want {
				t.Errorf("want %+v, got %+v", tc.want, got)
			}
		})
	}
}
