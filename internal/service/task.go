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

func (s *service) CreateTask(ctx *ginext.Context) {
	user, ok := s.currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	task := &model.Task{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Completed:   false,
	}
	if task.Priority == "" {
		task.Priority = "medium"
	}
	if req.DueDate != "" {
		due, err := time.Parse(validator.DateLayout, req.DueDate)
		if err != nil {
			dto.FieldIncorrectError(ctx, "due_date")
			return
		}
		task.DueDate = &due
	}

	id, err := s.repo.CreateTask(ctx.Request.Context(), task)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create task")
		dto.InternalServerError(ctx)
		return
	}
	task.ID = id

	s.log.Info().Int64("task_id", id).Msg("task created")
	dto.SuccessCreatedResponse(ctx, task)
}

func (s *service) ListTasks(ctx *ginext.Context) {
	user, ok := s.currentUser(ctx)
	if !ok {
		return
	}
	completed, ok := boolQuery(ctx, "completed")
	if !ok {
		return
	}

	tasks, err := s.repo.ListTasks(ctx.Request.Context(), user.ID, completed, ctx.Query("priority"))
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list tasks")
		dto.InternalServerError(ctx)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	dto.SuccessResponse(ctx, tasks)
}

func (s *service) GetTask(ctx *ginext.Context) {
	user, ok := s.currentUser(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	task, err := s.repo.GetTask(ctx.Request.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, repo.ErrTaskNotFound) {
			dto.TaskNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get task")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, task)
}

func (s *service) UpdateTask(ctx *ginext.Context) {
	user, ok := s.currentUser(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	task, err := s.repo.GetTask(ctx.Request.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, repo.ErrTaskNotFound) {
			dto.TaskNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get task")
		dto.InternalServerError(ctx)
		return
	}

	patch := model.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			patch.ClearDue = true
		} else {
			due, err := time.Parse(validator.DateLayout, *req.DueDate)
			if err != nil {
				dto.FieldIncorrectError(ctx, "due_date")
				return
			}
			patch.DueDate = &due
		}
	}
	model.ApplyTaskPatch(task, patch, time.Now().UTC())

	if err := s.repo.UpdateTask(ctx.Request.Context(), task); err != nil {
		if errors.Is(err, repo.ErrTaskNotFound) {
			dto.TaskNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to update task")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, task)
}

func (s *service) DeleteTask(ctx *ginext.Context) {
	user, ok := s.currentUser(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := s.repo.DeleteTask(ctx.Request.Context(), id, user.ID); err != nil {
		if errors.Is(err, repo.ErrTaskNotFound) {
			dto.TaskNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to delete task")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("task_id", id).Msg("task deleted")
	dto.SuccessResponse(ctx, dto.MessageResponse{Message: "Task deleted successfully"})
}

func (s *service) ToggleTask(ctx *ginext.Context) {
	user, ok := s.currentUser(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	task, err := s.repo.GetTask(ctx.Request.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, repo.ErrTaskNotFound) {
			dto.TaskNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get task")
		dto.InternalServerError(ctx)
		return
	}

	model.ToggleTask(task, time.Now().UTC())

	if err := s.repo.UpdateTask(ctx.Request.Context(), task); err != nil {
		if errors.Is(err, repo.ErrTaskNotFound) {
			dto.TaskNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to update task")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, task)
}
