package service

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"colorin/internal/auth"
	"colorin/internal/dto"
	"colorin/internal/model"
	"colorin/internal/repo"
	"colorin/pkg/validator"
)

// CurrentUserKey is where the admin gate stores the resolved account.
const CurrentUserKey = "currentUser"

// Publisher is the notification sink for created assignments. The rabbit
// client satisfies it; tests plug in a fake.
type Publisher interface {
	Publish(message []byte) error
}

type Service interface {
	Login(ctx *ginext.Context)
	Me(ctx *ginext.Context)
	ChangePassword(ctx *ginext.Context)
	CreateUser(ctx *ginext.Context)

	CreateStaff(ctx *ginext.Context)
	ListStaff(ctx *ginext.Context)
	GetStaff(ctx *ginext.Context)
	UpdateStaff(ctx *ginext.Context)
	DeleteStaff(ctx *ginext.Context)

	CreateEvent(ctx *ginext.Context)
	ListEvents(ctx *ginext.Context)
	GetEvent(ctx *ginext.Context)
	UpdateEvent(ctx *ginext.Context)
	DeleteEvent(ctx *ginext.Context)

	CreateAssignment(ctx *ginext.Context)
	ListAssignments(ctx *ginext.Context)
	DeleteAssignment(ctx *ginext.Context)
	BulkCreateAssignments(ctx *ginext.Context)

	RecommendStaff(ctx *ginext.Context)
	AutoAssign(ctx *ginext.Context)
	Distribution(ctx *ginext.Context)
	StaffStats(ctx *ginext.Context)
	StaffEvents(ctx *ginext.Context)

	CreateTask(ctx *ginext.Context)
	ListTasks(ctx *ginext.Context)
	GetTask(ctx *ginext.Context)
	UpdateTask(ctx *ginext.Context)
	DeleteTask(ctx *ginext.Context)
	ToggleTask(ctx *ginext.Context)

	CreateEventTask(ctx *ginext.Context)
	ListEventTasks(ctx *ginext.Context)
	UpdateEventTask(ctx *ginext.Context)
	DeleteEventTask(ctx *ginext.Context)
	ToggleEventTask(ctx *ginext.Context)
}

type service struct {
	repo   repo.Repository
	log    *zerolog.Logger
	tokens *auth.Tokens
	pub    Publisher
}

func NewService(repository repo.Repository, logger *zerolog.Logger, tokens *auth.Tokens, pub Publisher) Service {
	return &service{
		repo:   repository,
		log:    logger,
		tokens: tokens,
		pub:    pub,
	}
}

func (s *service) currentUser(ctx *ginext.Context) (*model.User, bool) {
	v, ok := ctx.Get(CurrentUserKey)
	if !ok {
		dto.UnauthorizedError(ctx, dto.InvalidToken, "Authentication required")
		return nil, false
	}
	user, ok := v.(*model.User)
	if !ok {
		dto.UnauthorizedError(ctx, dto.InvalidToken, "Authentication required")
		return nil, false
	}
	return user, true
}

// idParam parses a positive integer path parameter, answering 400 itself on
// bad input.
func idParam(ctx *ginext.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		dto.FieldIncorrectError(ctx, name)
		return 0, false
	}
	return id, true
}

// boolQuery parses an optional boolean query parameter.
func boolQuery(ctx *ginext.Context, name string) (*bool, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		dto.FieldIncorrectError(ctx, name)
		return nil, false
	}
	return &v, true
}

// dateQuery parses an optional YYYY-MM-DD query parameter.
func dateQuery(ctx *ginext.Context, name string) (*time.Time, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(validator.DateLayout, raw)
	if err != nil {
		dto.FieldIncorrectError(ctx, name)
		return nil, false
	}
	return &t, true
}

// today returns the reference date for future-workload counting: midnight of
// the current day, so events happening today still count as future.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// notifyAssignment publishes an assignment-created message. Notification is
// best effort: failures are logged and never fail the request.
func (s *service) notifyAssignment(a model.Assignment) {
	if s.pub == nil {
		return
	}
	payload, err := json.Marshal(dto.AssignmentCreatedMessage{
		AssignmentID: a.ID,
		StaffID:      a.StaffID,
		EventID:      a.EventID,
		Role:         a.Role,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal assignment notification")
		return
	}
	if err := s.pub.Publish(payload); err != nil {
		s.log.Error().Err(err).Int64("assignment_id", a.ID).Msg("failed to publish assignment notification")
	}
}
