package middleware

import (
	"cleaning-backend/internal/app/role"

	"github.com/gin-gonic/gin"
)

// CurrentUser пользователь сессии, кладётся в контекст WithAuthCheck
type CurrentUser struct {
	ID   uint
	Role role.Role
}

// SetUser сохраняет пользователя в контексте (userID, userRole)
func SetUser(c *gin.Context, user CurrentUser) {
	c.Set("userID", user.ID)
	c.Set("userRole", user.Role)
}

// GetUserFromContext извлекает пользователя из контекста
func GetUserFromContext(c *gin.Context) (CurrentUser, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return CurrentUser{}, false
	}
	id, ok := userID.(uint)
	if !ok || id == 0 {
		return CurrentUser{}, false
	}

	userRole, _ := c.Get("userRole")
	r, ok := userRole.(role.Role)
	if !ok || !r.Valid() {
		return CurrentUser{}, false
	}
	return CurrentUser{ID: id, Role: r}, true
}
