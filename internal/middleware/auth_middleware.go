package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authz "github.com/selinay/moraled/internal/app/auth"
	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/app/models/dto"
	"github.com/selinay/moraled/internal/app/repositories"
	"github.com/selinay/moraled/internal/app/services"
	"github.com/selinay/moraled/internal/pkg/auth"
)

// Context keys set by JWTAuth.
const (
	ContextUserKey   = "currentUser"
	ContextViewerKey = "viewer"
)

// AuthMiddleware handles authentication and authorization.
type AuthMiddleware struct {
	jwtService  *auth.JWTService
	userRepo    *repositories.UserRepository
	userService *services.UserService
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(jwtService *auth.JWTService, userRepo *repositories.UserRepository, userService *services.UserService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		userRepo:    userRepo,
		userService: userService,
	}
}

// JWTAuth validates the bearer token and loads the caller identity into the
// request context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		// Swagger UI sometimes puts the token in a query parameter.
		if authHeader == "" {
			if queryToken := c.Query("authorization"); queryToken != "" {
				authHeader = queryToken
			} else if queryToken := c.Query("token"); queryToken != "" {
				authHeader = queryToken
			}
		}

		if authHeader == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "Authorization header missing")
			return
		}

		var tokenString string
		// Accept a raw JWT without the Bearer prefix for Swagger convenience.
		if strings.Count(authHeader, ".") == 2 && !strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = authHeader
		} else {
			var err error
			tokenString, err = auth.ExtractBearerToken(authHeader)
			if err != nil {
				abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "Invalid token format")
				return
			}
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				errorCode = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			}
			abortUnauthorized(c, errorCode, "Authentication failed", details)
			return
		}

		user, err := m.userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Authentication failed", "Account no longer exists")
			return
		}
		if !user.IsActive {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Account is disabled")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		viewer, err := m.userService.BuildViewer(c.Request.Context(), user)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Set(ContextUserKey, user)
		c.Set(ContextViewerKey, viewer)

		c.Next()
	}
}

// PermissionRequired gates a route group on an action permission. Runs after
// JWTAuth.
func (m *AuthMiddleware) PermissionRequired(action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "Missing identity")
			return
		}

		if !authz.IsAuthorized(user.Role, action) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")
			errorDetail = errorDetail.WithDetails("Role " + string(user.Role) + " may not perform " + string(action))
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user loaded by JWTAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentViewer returns the scoping identity loaded by JWTAuth.
func CurrentViewer(c *gin.Context) (authz.Viewer, bool) {
	value, exists := c.Get(ContextViewerKey)
	if !exists {
		return authz.Viewer{}, false
	}
	viewer, ok := value.(authz.Viewer)
	return viewer, ok
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message, details string) {
	errorDetail := dto.NewErrorDetail(code, message)
	errorDetail = errorDetail.WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}
