package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/wb-go/wbf/ginext"

	"colorin/internal/dto"
	"colorin/internal/model"
	"colorin/internal/repo"
	"colorin/pkg/validator"
)

func (s *service) CreateEvent(ctx *ginext.Context) {
	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	date, err := time.Parse(validator.DateLayout, req.Date)
	if err != nil {
		dto.FieldIncorrectError(ctx, "date")
		return
	}

	event := &model.Event{
		Name:         req.Name,
		Date:         date,
		Category:     req.Category,
		Location:     req.Location,
		MorningSlot:  req.MorningSlot,
		BirthdaySlot: req.BirthdaySlot,
		Activities:   req.Activities,
		Notes:        req.Notes,
	}
	id, err := s.repo.CreateEvent(ctx.Request.Context(), event)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create event")
		dto.InternalServerError(ctx)
		return
	}
	event.ID = id

	s.log.Info().Int64("event_id", id).Msg("event created")
	dto.SuccessCreatedResponse(ctx, event)
}

func (s *service) ListEvents(ctx *ginext.Context) {
	from, ok := dateQuery(ctx, "from")
	if !ok {
		return
	}
	to, ok := dateQuery(ctx, "to")
	if !ok {
		return
	}

	events, err := s.repo.ListEvents(ctx.Request.Context(), from, to, ctx.Query("category"))
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list events")
		dto.InternalServerError(ctx)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	dto.SuccessResponse(ctx, events)
}

func (s *service) GetEvent(ctx *ginext.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	event, err := s.repo.GetEventByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			dto.EventNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get event")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, event)
}

func (s *service) UpdateEvent(ctx *ginext.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	event, err := s.repo.GetEventByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			dto.EventNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get event")
		dto.InternalServerError(ctx)
		return
	}

	patch := model.EventPatch{
		Name:         req.Name,
		Category:     req.Category,
		Location:     req.Location,
		MorningSlot:  req.MorningSlot,
		BirthdaySlot: req.BirthdaySlot,
		Activities:   req.Activities,
		Notes:        req.Notes,
	}
	if req.Date != nil {
		date, err := time.Parse(validator.DateLayout, *req.Date)
		if err != nil {
			dto.FieldIncorrectError(ctx, "date")
			return
		}
		patch.Date = &date
	}
	model.ApplyEventPatch(event, patch)

	if err := s.repo.UpdateEvent(ctx.Request.Context(), event); err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			dto.EventNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to update event")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, event)
}

// DeleteEvent removes the event with its assignments and checklist in one
// transaction.
func (s *service) DeleteEvent(ctx *ginext.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := s.repo.DeleteEventTx(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			dto.EventNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to delete event")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("event_id", id).Msg("event deleted")
	dto.SuccessResponse(ctx, dto.MessageResponse{Message: "Event deleted successfully"})
}
