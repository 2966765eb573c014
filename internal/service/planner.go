package service

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/wb-go/wbf/ginext"

	"colorin/internal/dto"
	"colorin/internal/model"
	"colorin/internal/planner"
	"colorin/internal/repo"
	"colorin/pkg/validator"
)

// activeStaffTrue is shared by the ranking paths, which only ever consider
// active staff.
var activeStaffTrue = true

// RecommendStaff ranks active staff for an event: unassigned before assigned,
// lighter future workload before heavier, names breaking ties.
func (s *service) RecommendStaff(ctx *ginext.Context) {
	eventID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	event, err := s.repo.GetEventByID(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			dto.EventNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get event")
		dto.InternalServerError(ctx)
		return
	}

	staff, err := s.repo.ListStaff(ctx.Request.Context(), &activeStaffTrue)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list active staff")
		dto.InternalServerError(ctx)
		return
	}
	counts, err := s.repo.CountFutureAssignments(ctx.Request.Context(), today())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count future assignments")
		dto.InternalServerError(ctx)
		return
	}
	assigned, err := s.repo.AssignedStaffIDs(ctx.Request.Context(), eventID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list assigned staff")
		dto.InternalServerError(ctx)
		return
	}

	recs := planner.Rank(staff, counts, assigned)

	dto.SuccessResponse(ctx, dto.RecommendationsResponse{
		EventID:        event.ID,
		EventName:      event.Name,
		EventDate:      event.Date.Format(validator.DateLayout),
		Staff:          recs,
		TotalStaff:     len(recs),
		AvailableStaff: planner.Available(recs),
	})
}

// AutoAssign picks the least-loaded active staff for the event and creates
// their assignments as one transactional batch. Staff already on the event
// are skipped, so the created count may be below the requested count.
func (s *service) AutoAssign(ctx *ginext.Context) {
	eventID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	count, err := strconv.Atoi(ctx.Query("count"))
	if err != nil || count <= 0 {
		dto.FieldIncorrectError(ctx, "count")
		return
	}

	if _, err := s.repo.GetEventByID(ctx.Request.Context(), eventID); err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			dto.EventNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get event")
		dto.InternalServerError(ctx)
		return
	}

	staff, err := s.repo.ListStaff(ctx.Request.Context(), &activeStaffTrue)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list active staff")
		dto.InternalServerError(ctx)
		return
	}
	counts, err := s.repo.CountFutureAssignments(ctx.Request.Context(), today())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count future assignments")
		dto.InternalServerError(ctx)
		return
	}

	selected, err := planner.Select(staff, counts, count)
	if err != nil {
		switch {
		case errors.Is(err, planner.ErrNoEligibleStaff):
			dto.BadResponseError(ctx, dto.NoEligibleStaff, "No active staff available")
		case errors.Is(err, planner.ErrInsufficientStaff):
			dto.BadResponseError(ctx, dto.InsufficientStaff,
				fmt.Sprintf("Only %d active staff available, %d requested", len(staff), count))
		default:
			s.log.Error().Err(err).Msg("failed to select staff")
			dto.InternalServerError(ctx)
		}
		return
	}

	created, err := s.repo.CreateAssignmentsTx(ctx.Request.Context(), eventID, selected, model.DefaultRole)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create assignments")
		dto.InternalServerError(ctx)
		return
	}

	names := make(map[int64]string, len(selected))
	for _, st := range selected {
		names[st.ID] = st.Name
	}
	result := make([]dto.CreatedAssignment, 0, len(created))
	for _, a := range created {
		s.notifyAssignment(a)
		result = append(result, dto.CreatedAssignment{StaffID: a.StaffID, StaffName: names[a.StaffID]})
	}

	s.log.Info().Int64("event_id", eventID).Int("created", len(result)).Msg("auto-assignment finished")
	dto.SuccessResponse(ctx, dto.AutoAssignResponse{
		Message:     fmt.Sprintf("Assigned %d staff to the event", len(result)),
		Assignments: result,
	})
}

// Distribution reports the current future-workload spread across active
// staff. With nothing to analyze it answers a message shape instead of
// numbers.
func (s *service) Distribution(ctx *ginext.Context) {
	staff, err := s.repo.ListStaff(ctx.Request.Context(), &activeStaffTrue)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list active staff")
		dto.InternalServerError(ctx)
		return
	}
	counts, err := s.repo.CountFutureAssignments(ctx.Request.Context(), today())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count future assignments")
		dto.InternalServerError(ctx)
		return
	}

	filled := planner.FillCounts(staff, counts)
	dist := make([]planner.StaffLoad, 0, len(staff))
	for _, st := range staff {
		dist = append(dist, planner.StaffLoad{StaffID: st.ID, Name: st.Name, FutureCount: filled[st.ID]})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].FutureCount != dist[j].FutureCount {
			return dist[i].FutureCount < dist[j].FutureCount
		}
		return dist[i].StaffID < dist[j].StaffID
	})

	analysis, hasData := planner.Analyze(dist)
	if !hasData {
		dto.SuccessResponse(ctx, dto.DistributionResponse{
			Distribution: []planner.StaffLoad{},
			Analysis:     dto.DistributionMessage{Message: "No future assignments"},
		})
		return
	}
	dto.SuccessResponse(ctx, dto.DistributionResponse{Distribution: dist, Analysis: analysis})
}

func (s *service) StaffStats(ctx *ginext.Context) {
	from, ok := dateQuery(ctx, "from")
	if !ok {
		return
	}
	to, ok := dateQuery(ctx, "to")
	if !ok {
		return
	}

	stats, err := s.repo.StaffStats(ctx.Request.Context(), from, to)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to query staff stats")
		dto.InternalServerError(ctx)
		return
	}
	if stats == nil {
		stats = []repo.StaffStat{}
	}

	total := 0
	for _, st := range stats {
		total += st.Total
	}
	average := 0.0
	if len(stats) > 0 {
		average = float64(total) / float64(len(stats))
		average = float64(int(average*100+0.5)) / 100
	}

	dto.SuccessResponse(ctx, dto.StaffStatsResponse{
		Stats: stats,
		Summary: dto.StaffStatsSummary{
			TotalStaff:       len(stats),
			TotalAssignments: total,
			Average:          average,
		},
	})
}

func (s *service) StaffEvents(ctx *ginext.Context) {
	staffID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	from, ok := dateQuery(ctx, "from")
	if !ok {
		return
	}
	to, ok := dateQuery(ctx, "to")
	if !ok {
		return
	}

	staff, err := s.repo.GetStaffByID(ctx.Request.Context(), staffID)
	if err != nil {
		if errors.Is(err, repo.ErrStaffNotFound) {
			dto.StaffNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get staff member")
		dto.InternalServerError(ctx)
		return
	}

	events, err := s.repo.EventsByStaff(ctx.Request.Context(), staffID, from, to)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to query staff events")
		dto.InternalServerError(ctx)
		return
	}
	if events == nil {
		events = []repo.StaffEvent{}
	}

	dto.SuccessResponse(ctx, dto.StaffEventsResponse{
		Staff:       staff,
		TotalEvents: len(events),
		Events:      events,
	})
}
