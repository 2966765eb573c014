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

// eventForChecklist loads the owning event, answering 404/500 itself when it
// cannot.
func (s *service) eventForChecklist(ctx *ginext.Context) (int64, bool) {
	eventID, ok := idParam(ctx, "id")
	if !ok {
		return 0, false
	}
	if _, err := s.repo.GetEventByID(ctx.Request.Context(), eventID); err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			dto.EventNotFoundError(ctx)
			return 0, false
		}
		s.log.Error().Err(err).Msg("failed to get event")
		dto.InternalServerError(ctx)
		return 0, false
	}
	return eventID, true
}

func (s *service) CreateEventTask(ctx *ginext.Context) {
	eventID, ok := s.eventForChecklist(ctx)
	if !ok {
		return
	}

	var req dto.CreateEventTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	task := &model.EventTask{
		EventID:     eventID,
		Description: req.Description,
		Completed:   false,
	}
	id, err := s.repo.CreateEventTask(ctx.Request.Context(), task)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create event task")
		dto.InternalServerError(ctx)
		return
	}
	task.ID = id

	s.log.Info().Int64("event_task_id", id).Msg("event task created")
	dto.SuccessCreatedResponse(ctx, task)
}

func (s *service) ListEventTasks(ctx *ginext.Context) {
	eventID, ok := s.eventForChecklist(ctx)
	if !ok {
		return
	}
	completed, ok := boolQuery(ctx, "completed")
	if !ok {
		return
	}

	tasks, err := s.repo.ListEventTasks(ctx.Request.Context(), eventID, completed)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list event tasks")
		dto.InternalServerError(ctx)
		return
	}
	if tasks == nil {
		tasks = []model.EventTask{}
	}
	dto.SuccessResponse(ctx, tasks)
}

func (s *service) UpdateEventTask(ctx *ginext.Context) {
	eventID, ok := s.eventForChecklist(ctx)
	if !ok {
		return
	}
	taskID, ok := idParam(ctx, "taskID")
	if !ok {
		return
	}

	var req dto.UpdateEventTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	task, err := s.repo.GetEventTask(ctx.Request.Context(), taskID, eventID)
	if err != nil {
		if errors.Is(err, repo.ErrTaskNotFound) {
			dto.TaskNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get event task")
		dto.InternalServerError(ctx)
		return
	}

	model.ApplyEventTaskPatch(task, model.EventTaskPatch{
		Description: req.Description,
		Completed:   req.Completed,
	}, time.Now().UTC())

	if err := s.repo.UpdateEventTask(ctx.Request.Context(), task); err != nil {
		if errors.Is(err, repo.ErrTaskNotFound) {
			dto.TaskNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to update event task")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, task)
}

func (s *service) DeleteEventTask(ctx *ginext.Context) {
	eventID, ok := s.eventForChecklist(ctx)
	if !ok {
		return
	}
	taskID, ok := idParam(ctx, "taskID")
	if !ok {
		return
	}

	if err := s.repo.DeleteEventTask(ctx.Request.Context(), taskID, eventID); err != nil {
		if errors.Is(err, repo.ErrTaskNotFound) {
			dto.TaskNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to delete event task")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("event_task_id", taskID).Msg("event task deleted")
	dto.SuccessResponse(ctx, dto.MessageResponse{Message: "Task deleted successfully"})
}

func (s *service) ToggleEventTask(ctx *ginext.Context) {
	eventID, ok := s.eventForChecklist(ctx)
	if !ok {
		return
	}
	taskID, ok := idParam(ctx, "taskID")
	if !ok {
		return
	}

	task, err := s.repo.GetEventTask(ctx.Request.Context(), taskID, eventID)
	if err != nil {
		if errors.Is(err, repo.ErrTaskNotFound) {
			dto.TaskNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get event task")
		dto.InternalServerError(ctx)
		return
	}

	model.ToggleEventTask(task, time.Now().UTC())

	if err := s.repo.UpdateEventTask(ctx.Request.Context(), task); err != nil {
		if errors.Is(err, repo.ErrTaskNotFound) {
			dto.TaskNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to update event task")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, task)
}
