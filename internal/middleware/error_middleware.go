package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talabahamkor/choyxona/internal/app/models/dto"
	"github.com/talabahamkor/choyxona/internal/pkg/apperrors"
	"github.com/talabahamkor/choyxona/internal/pkg/logger"
)

// HandleAPIError maps service errors onto HTTP responses. Out-of-scope
// resources surface as plain not-found; forbidden is reserved for ownership
// and moderation failures on content the actor can see.
func HandleAPIError(c *gin.Context, err error) {
	var custom *apperrors.CustomError
	message := ""
	if errors.As(err, &custom) {
		message = custom.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrPostNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Post not found")

	case errors.Is(err, apperrors.ErrCommentNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Comment not found")

	case errors.Is(err, apperrors.ErrActorNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, orDefault(message, "Resource not found"))

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, dto.ErrorCodeForbidden, orDefault(message, "Permission denied"))

	case errors.Is(err, apperrors.ErrReplyTargetMismatch):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Reply target belongs to a different post")

	case errors.Is(err, apperrors.ErrScopeUnavailable):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Actor has no attribute for the requested scope")

	case errors.Is(err, apperrors.ErrUnknownScopeKind),
		errors.Is(err, apperrors.ErrUnknownEngagementKind),
		errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, orDefault(message, "Invalid request"))

	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")

	case errors.Is(err, apperrors.ErrTokenInvalid):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")

	case errors.Is(err, apperrors.ErrTokenNotFound):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found")

	case errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, orDefault(message, "Conflict"))

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		respondError(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respondError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

func orDefault(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}
