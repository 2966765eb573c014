package service

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/wb-go/wbf/ginext"

	"colorin/internal/dto"
	"colorin/internal/model"
	"colorin/internal/repo"
	"colorin/pkg/validator"
)

func (s *service) CreateAssignment(ctx *ginext.Context) {
	var req dto.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	if _, err := s.repo.GetStaffByID(ctx.Request.Context(), req.StaffID); err != nil {
		if errors.Is(err, repo.ErrStaffNotFound) {
			dto.StaffNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get staff member")
		dto.InternalServerError(ctx)
		return
	}
	if _, err := s.repo.GetEventByID(ctx.Request.Context(), req.EventID); err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			dto.EventNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get event")
		dto.InternalServerError(ctx)
		return
	}

	assignment := &model.Assignment{
		StaffID: req.StaffID,
		EventID: req.EventID,
		Role:    req.Role,
	}
	if assignment.Role == "" {
		assignment.Role = model.DefaultRole
	}

	id, err := s.repo.CreateAssignment(ctx.Request.Context(), assignment)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateAssignment) {
			dto.BadResponseError(ctx, dto.DuplicateAssignment, "Staff member is already assigned to this event")
			return
		}
		s.log.Error().Err(err).Msg("failed to create assignment")
		dto.InternalServerError(ctx)
		return
	}
	assignment.ID = id

	s.log.Info().Int64("assignment_id", id).Msg("assignment created")
	s.notifyAssignment(*assignment)
	dto.SuccessCreatedResponse(ctx, assignment)
}

func (s *service) ListAssignments(ctx *ginext.Context) {
	var staffID, eventID int64
	if raw := ctx.Query("staff_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			dto.FieldIncorrectError(ctx, "staff_id")
			return
		}
		staffID = id
	}
	if raw := ctx.Query("event_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			dto.FieldIncorrectError(ctx, "event_id")
			return
		}
		eventID = id
	}

	assignments, err := s.repo.ListAssignments(ctx.Request.Context(), staffID, eventID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list assignments")
		dto.InternalServerError(ctx)
		return
	}
	if assignments == nil {
		assignments = []model.Assignment{}
	}
	dto.SuccessResponse(ctx, assignments)
}

func (s *service) DeleteAssignment(ctx *ginext.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := s.repo.DeleteAssignment(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, repo.ErrAssignmentNotFound) {
			dto.NotFoundError(ctx, dto.AssignmentNotFound, "Assignment not found")
			return
		}
		s.log.Error().Err(err).Msg("failed to delete assignment")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("assignment_id", id).Msg("assignment deleted")
	dto.SuccessResponse(ctx, dto.MessageResponse{Message: "Assignment deleted successfully"})
}

// BulkCreateAssignments creates several manual assignments in one call,
// reporting per-item failures alongside the created entries.
func (s *service) BulkCreateAssignments(ctx *ginext.Context) {
	var reqs []dto.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&reqs); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}
	if len(reqs) == 0 {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "No assignments given")
		return
	}
	for _, req := range reqs {
		if verr := validator.Validate(ctx, req); verr != nil {
			dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
			return
		}
	}

	items := make([]model.Assignment, 0, len(reqs))
	for _, req := range reqs {
		items = append(items, model.Assignment{StaffID: req.StaffID, EventID: req.EventID, Role: req.Role})
	}

	created, failures, err := s.repo.BulkCreateAssignments(ctx.Request.Context(), items)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to bulk create assignments")
		dto.InternalServerError(ctx)
		return
	}

	for _, c := range created {
		s.notifyAssignment(model.Assignment{
			ID:      c.AssignmentID,
			StaffID: c.StaffID,
			EventID: c.EventID,
			Role:    c.Role,
		})
	}

	s.log.Info().Int("created", len(created)).Int("failed", len(failures)).Msg("bulk assignment finished")
	dto.SuccessResponse(ctx, dto.BulkAssignResponse{
		Created:      created,
		TotalCreated: len(created),
		Errors:       failures,
	})
}
