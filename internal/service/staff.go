package service

import (
	"errors"
	"fmt"

	"github.com/wb-go/wbf/ginext"

	"colorin/internal/dto"
	"colorin/internal/model"
	"colorin/internal/repo"
	"colorin/pkg/validator"
)

func (s *service) CreateStaff(ctx *ginext.Context) {
	var req dto.CreateStaffRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	staff := &model.Staff{Name: req.Name, Active: true}
	if req.Active != nil {
		staff.Active = *req.Active
	}

	id, err := s.repo.CreateStaff(ctx.Request.Context(), staff)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create staff member")
		dto.InternalServerError(ctx)
		return
	}
	staff.ID = id

	s.log.Info().Int64("staff_id", id).Msg("staff member created")
	dto.SuccessCreatedResponse(ctx, staff)
}

func (s *service) ListStaff(ctx *ginext.Context) {
	active, ok := boolQuery(ctx, "active")
	if !ok {
		return
	}

	staff, err := s.repo.ListStaff(ctx.Request.Context(), active)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list staff")
		dto.InternalServerError(ctx)
		return
	}
	if staff == nil {
		staff = []model.Staff{}
	}
	dto.SuccessResponse(ctx, staff)
}

func (s *service) GetStaff(ctx *ginext.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	staff, err := s.repo.GetStaffByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrStaffNotFound) {
			dto.StaffNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get staff member")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, staff)
}

func (s *service) UpdateStaff(ctx *ginext.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateStaffRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	staff, err := s.repo.GetStaffByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrStaffNotFound) {
			dto.StaffNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get staff member")
		dto.InternalServerError(ctx)
		return
	}

	model.ApplyStaffPatch(staff, model.StaffPatch{Name: req.Name, Active: req.Active})

	if err := s.repo.UpdateStaff(ctx.Request.Context(), staff); err != nil {
		if errors.Is(err, repo.ErrStaffNotFound) {
			dto.StaffNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to update staff member")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, staff)
}

// DeleteStaff removes a staff member only while no assignment references it.
func (s *service) DeleteStaff(ctx *ginext.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if _, err := s.repo.GetStaffByID(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, repo.ErrStaffNotFound) {
			dto.StaffNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get staff member")
		dto.InternalServerError(ctx)
		return
	}

	count, err := s.repo.CountAssignmentsByStaff(ctx.Request.Context(), id)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count assignments")
		dto.InternalServerError(ctx)
		return
	}
	if count > 0 {
		dto.BadResponseError(ctx, dto.StaffHasAssignments,
			fmt.Sprintf("Cannot delete staff member: %d assigned events", count))
		return
	}

	if err := s.repo.DeleteStaff(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, repo.ErrStaffNotFound) {
			dto.StaffNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to delete staff member")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("staff_id", id).Msg("staff member deleted")
	dto.SuccessResponse(ctx, dto.MessageResponse{Message: "Staff member deleted successfully"})
}
