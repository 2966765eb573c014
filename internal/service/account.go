package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wb-go/wbf/ginext"

	"colorin/internal/auth"
	"colorin/internal/dto"
	"colorin/internal/model"
	"colorin/internal/repo"
	"colorin/pkg/validator"
)

func (s *service) Login(ctx *ginext.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	user, err := s.repo.GetUserByUsername(ctx.Request.Context(), req.Username)
	if err != nil {
		if !errors.Is(err, repo.ErrUserNotFound) {
			s.log.Error().Err(err).Msg("failed to look up user for login")
			dto.InternalServerError(ctx)
			return
		}
		dto.UnauthorizedError(ctx, dto.InvalidCredentials, "Wrong username or password")
		return
	}
	if auth.CheckPassword(req.Password, user.HashedPassword) != nil || !user.Active {
		dto.UnauthorizedError(ctx, dto.InvalidCredentials, "Wrong username or password")
		return
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to issue token")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Str("username", user.Username).Msg("user logged in")
	dto.SuccessResponse(ctx, dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *service) Me(ctx *ginext.Context) {
	user, ok := s.currentUser(ctx)
	if !ok {
		return
	}
	dto.SuccessResponse(ctx, dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Active:    user.Active,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	})
}

func (s *service) ChangePassword(ctx *ginext.Context) {
	user, ok := s.currentUser(ctx)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}
	if strings.TrimSpace(req.NewPassword) == "" {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "New password cannot be empty")
		return
	}

	if auth.CheckPassword(req.CurrentPassword, user.HashedPassword) != nil {
		dto.BadResponseError(ctx, dto.InvalidCredentials, "Current password is incorrect")
		return
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to hash password")
		dto.InternalServerError(ctx)
		return
	}
	if err := s.repo.UpdateUserPassword(ctx.Request.Context(), user.ID, hashed); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			dto.NotFoundError(ctx, dto.UserNotFound, "User not found")
			return
		}
		s.log.Error().Err(err).Msg("failed to update password")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("user_id", user.ID).Msg("password changed")
	dto.SuccessResponse(ctx, dto.MessageResponse{Message: "Password updated successfully"})
}

// CreateUser bootstraps the administrative account. It only works while no
// account exists; afterwards the endpoint is sealed.
func (s *service) CreateUser(ctx *ginext.Context) {
	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	count, err := s.repo.CountUsers(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count users")
		dto.InternalServerError(ctx)
		return
	}
	if count > 0 {
		dto.BadResponseError(ctx, dto.BootstrapDone, "An account already exists. Use /login instead.")
		return
	}

	if _, err := s.repo.GetUserByUsername(ctx.Request.Context(), req.Username); err == nil {
		dto.BadResponseError(ctx, dto.UserExists, "Username is already taken")
		return
	} else if !errors.Is(err, repo.ErrUserNotFound) {
		s.log.Error().Err(err).Msg("failed to check username")
		dto.InternalServerError(ctx)
		return
	}
	emailTaken, err := s.repo.UserEmailExists(ctx.Request.Context(), req.Email)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to check email")
		dto.InternalServerError(ctx)
		return
	}
	if emailTaken {
		dto.BadResponseError(ctx, dto.EmailExists, "Email is already registered")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to hash password")
		dto.InternalServerError(ctx)
		return
	}
	user := &model.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashed,
		Active:         true,
		IsAdmin:        true,
	}
	id, err := s.repo.CreateUser(ctx.Request.Context(), user)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create user")
		dto.InternalServerError(ctx)
		return
	}
	user.ID = id

	s.log.Info().Int64("user_id", id).Str("username", user.Username).Msg("administrative account created")
	dto.SuccessCreatedResponse(ctx, dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Active:    user.Active,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	})
}
