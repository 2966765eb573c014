package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"colorin/internal/auth"
	"colorin/internal/dto"
	"colorin/internal/repo"
	"colorin/internal/service"
)

func LoggingMiddleware(log *zerolog.Logger) ginext.HandlerFunc {
	return func(c *ginext.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	}
}

// RequireAdmin verifies the bearer token, resolves the embedded identity to a
// live account and gates on the active and admin flags. Inactive and
// non-admin accounts are rejected distinctly.
func RequireAdmin(tokens *auth.Tokens, repository repo.Repository, log *zerolog.Logger) ginext.HandlerFunc {
	return func(c *ginext.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			dto.UnauthorizedError(c, dto.InvalidToken, "Bearer token required")
			c.Abort()
			return
		}

		identity, err := tokens.Verify(token)
		if err != nil {
			dto.UnauthorizedError(c, dto.InvalidToken, "Token is invalid or expired")
			c.Abort()
			return
		}

		user, err := repository.GetUserByUsername(c.Request.Context(), identity)
		if err != nil {
			if errors.Is(err, repo.ErrUserNotFound) {
				dto.UnauthorizedError(c, dto.UnknownIdentity, "Account no longer exists")
				c.Abort()
				return
			}
			log.Error().Err(err).Msg("failed to resolve token identity")
			dto.InternalServerError(c)
			c.Abort()
			return
		}

		if !user.Active {
			dto.ForbiddenError(c, dto.AccountInactive, "Account is inactive")
			c.Abort()
			return
		}
		if !user.IsAdmin {
			dto.ForbiddenError(c, dto.AdminRequired, "Administrator privileges required")
			c.Abort()
			return
		}

		c.Set(service.CurrentUserKey, user)
		c.Next()
	}
}
