package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/selinay/moraled/internal/app/models/dto"
	"github.com/selinay/moraled/internal/pkg/apperrors"
)

// HandleAPIError maps service errors onto the standard error response.
// Controllers call it with whatever the service layer returned.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrGradeNotFound),
		errors.Is(err, apperrors.ErrClassNotFound),
		errors.Is(err, apperrors.ErrChapterNotFound),
		errors.Is(err, apperrors.ErrDimensionNotFound),
		errors.Is(err, apperrors.ErrSubItemNotFound),
		errors.Is(err, apperrors.ErrScoreNotFound),
		errors.Is(err, apperrors.ErrSubmissionNotFound),
		errors.Is(err, apperrors.ErrAwardNotFound),
		errors.Is(err, apperrors.ErrRelationshipMissing):
		respondError(c, 404, dto.ErrorCodeResourceNotFound, errorMessage(err))

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, 403, dto.ErrorCodeForbidden, errorMessage(err))

	case errors.Is(err, apperrors.ErrAccountDisabled):
		respondError(c, 403, dto.ErrorCodeForbidden, "Account is disabled")

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, 401, dto.ErrorCodeInvalidCredentials, "Invalid credentials")

	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, 401, dto.ErrorCodeExpiredToken, "Token expired")

	case errors.Is(err, apperrors.ErrTokenInvalid):
		respondError(c, 401, dto.ErrorCodeInvalidToken, "Invalid token")

	case errors.Is(err, apperrors.ErrTokenNotFound):
		respondError(c, 401, dto.ErrorCodeTokenNotFound, "Token not found")

	case errors.Is(err, apperrors.ErrTokenRevoked):
		respondError(c, 401, dto.ErrorCodeInvalidToken, "Token revoked")

	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrRoleInvalid),
		errors.Is(err, apperrors.ErrNotAStudent),
		errors.Is(err, apperrors.ErrNotAParent):
		respondError(c, 400, dto.ErrorCodeValidationFailed, errorMessage(err))

	case errors.Is(err, apperrors.ErrSubmissionReviewed):
		respondError(c, 409, dto.ErrorCodeResourceConflict, errorMessage(err))

	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrResourceAlreadyExists),
		errors.Is(err, apperrors.ErrUsernameAlreadyExists),
		errors.Is(err, apperrors.ErrGradeAlreadyExists),
		errors.Is(err, apperrors.ErrClassAlreadyExists),
		errors.Is(err, apperrors.ErrRuleNameTaken):
		respondError(c, 409, dto.ErrorCodeResourceAlreadyExists, errorMessage(err))

	default:
		respondError(c, 500, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respondError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.APIResponse{Error: dto.NewErrorDetail(code, message)})
}

// errorMessage prefers the request-specific message a CustomError carries over
// the sentinel text.
func errorMessage(err error) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return err.Error()
}
