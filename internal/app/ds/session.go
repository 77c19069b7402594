package ds

import (
	"cleaning-backend/internal/app/role"

	"github.com/golang-jwt/jwt"
)

// SessionClaims подписанный идентификатор сессии. Id (jti) это ключ сессии в Redis
type SessionClaims struct {
	jwt.StandardClaims
}

// Session то, что лежит в Redis по ключу session:<id>
type Session struct {
	ID     string    `json:"-"`
	UserID uint      `json:"user_id"`
	Role   role.Role `json:"role"`
}
