package dto

import (
	"time"

	"github.com/wb-go/wbf/ginext"

	"colorin/internal/planner"
	"colorin/internal/repo"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."

	InvalidCredentials = "INVALID_CREDENTIALS"
	InvalidToken       = "INVALID_TOKEN"
	UnknownIdentity    = "UNKNOWN_IDENTITY"
	AccountInactive    = "ACCOUNT_INACTIVE"
	AdminRequired      = "ADMIN_REQUIRED"

	UserNotFound        = "USER_NOT_FOUND"
	UserExists          = "USER_EXISTS"
	EmailExists         = "EMAIL_EXISTS"
	BootstrapDone       = "BOOTSTRAP_DONE"
	StaffNotFound       = "STAFF_NOT_FOUND"
	StaffHasAssignments = "STAFF_HAS_ASSIGNMENTS"
	EventNotFound       = "EVENT_NOT_FOUND"
	AssignmentNotFound  = "ASSIGNMENT_NOT_FOUND"
	TaskNotFound        = "TASK_NOT_FOUND"
	DuplicateAssignment = "DUPLICATE_ASSIGNMENT"
	NoEligibleStaff     = "NO_ELIGIBLE_STAFF"
	InsufficientStaff   = "INSUFFICIENT_STAFF"
)

// ---- requests ----

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type CreateStaffRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	Active *bool  `json:"active"`
}

type UpdateStaffRequest struct {
	Name   *string `json:"name" validate:"omitempty,max=100"`
	Active *bool   `json:"active"`
}

type CreateEventRequest struct {
	Name         string   `json:"name" validate:"required,max=200"`
	Date         string   `json:"date" validate:"required,dateonly"`
	Category     string   `json:"category" validate:"required,max=50"`
	Location     string   `json:"location" validate:"max=200"`
	MorningSlot  string   `json:"morning_slot" validate:"max=20"`
	BirthdaySlot string   `json:"birthday_slot" validate:"max=20"`
	Activities   []string `json:"activities"`
	Notes        string   `json:"notes"`
}

type UpdateEventRequest struct {
	Name         *string   `json:"name" validate:"omitempty,max=200"`
	Date         *string   `json:"date" validate:"omitempty,dateonly"`
	Category     *string   `json:"category" validate:"omitempty,max=50"`
	Location     *string   `json:"location" validate:"omitempty,max=200"`
	MorningSlot  *string   `json:"morning_slot" validate:"omitempty,max=20"`
	BirthdaySlot *string   `json:"birthday_slot" validate:"omitempty,max=20"`
	Activities   *[]string `json:"activities"`
	Notes        *string   `json:"notes"`
}

type CreateAssignmentRequest struct {
	StaffID int64  `json:"staff_id" validate:"required,gt=0"`
	EventID int64  `json:"event_id" validate:"required,gt=0"`
	Role    string `json:"role" validate:"max=50"`
}

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	DueDate     string `json:"due_date" validate:"omitempty,dateonly"`
	Priority    string `json:"priority" validate:"omitempty,priority"`
}

// UpdateTaskRequest carries a partial update; absent fields stay untouched.
// An explicit empty due_date clears the date.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	DueDate     *string `json:"due_date" validate:"omitempty,dateonly"`
	Priority    *string `json:"priority" validate:"omitempty,priority"`
}

type CreateEventTaskRequest struct {
	Description string `json:"description" validate:"required,max=300"`
}

type UpdateEventTaskRequest struct {
	Description *string `json:"description" validate:"omitempty,max=300"`
	Completed   *bool   `json:"completed"`
}

// ---- responses ----

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type RecommendationsResponse struct {
	EventID        int64                    `json:"event_id"`
	EventName      string                   `json:"event_name"`
	EventDate      string                   `json:"event_date"`
	Staff          []planner.Recommendation `json:"staff"`
	TotalStaff     int                      `json:"total_staff"`
	AvailableStaff int                      `json:"available_staff"`
}

type CreatedAssignment struct {
	StaffID   int64  `json:"staff_id"`
	StaffName string `json:"staff_name"`
}

type AutoAssignResponse struct {
	Message     string              `json:"message"`
	Assignments []CreatedAssignment `json:"assignments"`
}

type BulkAssignResponse struct {
	Created      []repo.BulkCreated `json:"created"`
	TotalCreated int                `json:"total_created"`
	Errors       []string           `json:"errors,omitempty"`
}

type DistributionResponse struct {
	Distribution []planner.StaffLoad `json:"distribution"`
	Analysis     any                 `json:"analysis"`
}

type DistributionMessage struct {
	Message string `json:"message"`
}

type StaffStatsSummary struct {
	TotalStaff       int     `json:"total_staff"`
	TotalAssignments int     `json:"total_assignments"`
	Average          float64 `json:"average_per_staff"`
}

type StaffStatsResponse struct {
	Stats   []repo.StaffStat  `json:"stats"`
	Summary StaffStatsSummary `json:"summary"`
}

type StaffEventsResponse struct {
	Staff       any               `json:"staff"`
	TotalEvents int               `json:"total_events"`
	Events      []repo.StaffEvent `json:"events"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type AssignmentCreatedMessage struct {
	AssignmentID int64  `json:"assignment_id"`
	StaffID      int64  `json:"staff_id"`
	EventID      int64  `json:"event_id"`
	Role         string `json:"role"`
}

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

func errorResponse(c *ginext.Context, status int, code, desc string) {
	c.JSON(status, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func BadResponseError(c *ginext.Context, code, desc string) {
	errorResponse(c, 400, code, desc)
}

func UnauthorizedError(c *ginext.Context, code, desc string) {
	errorResponse(c, 401, code, desc)
}

func ForbiddenError(c *ginext.Context, code, desc string) {
	errorResponse(c, 403, code, desc)
}

func NotFoundError(c *ginext.Context, code, desc string) {
	errorResponse(c, 404, code, desc)
}

func InternalServerError(c *ginext.Context) {
	errorResponse(c, 500, ServiceUnavailable, InternalError)
}

func FieldIncorrectError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldIncorrect, "Field '"+fieldName+"' is incorrect")
}

func EventNotFoundError(c *ginext.Context) {
	NotFoundError(c, EventNotFound, "Event not found")
}

func StaffNotFoundError(c *ginext.Context) {
	NotFoundError(c, StaffNotFound, "Staff member not found")
}

func TaskNotFoundError(c *ginext.Context) {
	NotFoundError(c, TaskNotFound, "Task not found")
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(201, Response{
		Status: "ok",
		Data:   data,
	})
}
