package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"cleaning-backend/internal/app/ds"
	"cleaning-backend/internal/app/dto"
	"cleaning-backend/internal/app/role"
	"cleaning-backend/internal/app/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const SessionCookie = "session"

// SessionResolver то, что нужно middleware от session.Manager
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*ds.Session, error)
}

type AuthMiddleware struct {
	Sessions SessionResolver
}

func NewAuthMiddleware(sessions SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{
		Sessions: sessions,
	}
}

// WithAuthCheck middleware для проверки сессии с ролями
func (am *AuthMiddleware) WithAuthCheck(assignedRoles ...role.Role) gin.HandlerFunc {
	return gin.HandlerFunc(func(gCtx *gin.Context) {
		token := TokenFromRequest(gCtx)
		if token == "" {
			abort(gCtx, http.StatusUnauthorized, "authentication required")
			return
		}

		s, err := am.Sessions.Resolve(gCtx.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) && !errors.Is(err, session.ErrInvalidToken) {
				logrus.Error("Error resolving session: ", err)
			}
			abort(gCtx, http.StatusUnauthorized, "session expired or invalid")
			return
		}

		// Проверяем роли пользователя
		if len(assignedRoles) > 0 && !hasRequiredRole(s.Role, assignedRoles) {
			abort(gCtx, http.StatusForbidden, "access denied for role "+string(s.Role))
			return
		}

		SetUser(gCtx, CurrentUser{ID: s.UserID, Role: s.Role})
		gCtx.Set("sessionToken", token)

		gCtx.Next()
	})
}

// TokenFromRequest cookie session, иначе заголовок Authorization: Bearer
func TokenFromRequest(gCtx *gin.Context) string {
	if cookie, err := gCtx.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	header := gCtx.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}

func abort(gCtx *gin.Context, status int, message string) {
	gCtx.AbortWithStatusJSON(status, dto.ErrorResponse{Status: "fail", Message: message})
}

// hasRequiredRole проверяет, есть ли у пользователя необходимая роль
func hasRequiredRole(userRole role.Role, requiredRoles []role.Role) bool {
	for _, requiredRole := range requiredRoles {
		if userRole == requiredRole {
			return true
		}
	}
	return false
}
