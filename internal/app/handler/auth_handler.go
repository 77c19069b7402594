package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"cleaning-backend/internal/app/ds"
	"cleaning-backend/internal/app/dto"
	"cleaning-backend/internal/app/middleware"
	"cleaning-backend/internal/app/negotiation"
	"cleaning-backend/internal/app/repository"
	"cleaning-backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// SessionManager то, что нужно обработчикам авторизации от session.Manager
type SessionManager interface {
	Create(ctx context.Context, userID uint, r role.Role) (string, *ds.Session, error)
	Destroy(ctx context.Context, token string) error
	TTL() time.Duration
}

type AuthHandler struct {
	Accounts AccountStore
	Sessions SessionManager
	Secure   bool // cookie только по https
}

func NewAuthHandler(accounts AccountStore, sessions SessionManager, secure bool) *AuthHandler {
	return &AuthHandler{
		Accounts: accounts,
		Sessions: sessions,
		Secure:   secure,
	}
}

const invalidCredentials = "invalid login or password"

// Register регистрация нового клиента
// @Summary Регистрация клиента
// @Description Создаёт клиента; от карты сохраняются только последние 4 цифры
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные для регистрации"
// @Success 201 {object} dto.ClientResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var request dto.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		bindError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		logrus.Error("Error hashing password: ", err)
		errorResponse(c, http.StatusInternalServerError, "failed to register user")
		return
	}

	client := &ds.Client{
		FirstName:     strings.TrimSpace(request.FirstName),
		LastName:      strings.TrimSpace(request.LastName),
		Email:         request.Email,
		Phone:         request.Phone,
		Address:       request.Address,
		PasswordHash:  string(hash),
		CardReference: cardLast4(request.CardNumber),
	}
	if err := h.Accounts.CreateClient(c.Request.Context(), client); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			errorResponse(c, http.StatusConflict, "a user with this email already exists")
			return
		}
		logrus.Error("Error creating client: ", err)
		errorResponse(c, http.StatusInternalServerError, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, dto.NewClientResponse(*client))
}

// Login вход клиента по email и паролю
// @Summary Вход клиента
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Email и пароль"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var request dto.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		bindError(c, err)
		return
	}

	client, err := h.Accounts.GetClientByEmail(c.Request.Context(), request.Email)
	if err != nil {
		if !errors.Is(err, negotiation.ErrNotFound) {
			logrus.Error("Error getting client: ", err)
		}
		errorResponse(c, http.StatusUnauthorized, invalidCredentials)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(request.Password)) != nil {
		errorResponse(c, http.StatusUnauthorized, invalidCredentials)
		return
	}

	h.startSession(c, client.ID, role.Client, clientUser(client))
}

// ManagerLogin вход менеджера по имени пользователя
// @Summary Вход менеджера
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.ManagerLoginRequest true "Имя пользователя и пароль"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/manager/login [post]
func (h *AuthHandler) ManagerLogin(c *gin.Context) {
	var request dto.ManagerLoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		bindError(c, err)
		return
	}

	admin, err := h.Accounts.GetAdminByUsername(c.Request.Context(), request.Username)
	if err != nil {
		if !errors.Is(err, negotiation.ErrNotFound) {
			logrus.Error("Error getting admin: ", err)
		}
		errorResponse(c, http.StatusUnauthorized, invalidCredentials)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(request.Password)) != nil {
		errorResponse(c, http.StatusUnauthorized, invalidCredentials)
		return
	}

	h.startSession(c, admin.ID, role.Manager, managerUser(admin))
}

func (h *AuthHandler) startSession(c *gin.Context, userID uint, r role.Role, user dto.UserResponse) {
	token, _, err := h.Sessions.Create(c.Request.Context(), userID, r)
	if err != nil {
		logrus.Error("Error creating session: ", err)
		errorResponse(c, http.StatusInternalServerError, "failed to create session")
		return
	}

	maxAge := int(h.Sessions.TTL().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.Secure, true)

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresIn: maxAge,
		User:      user,
	})
}

// Logout завершение сессии
// @Summary Выход
// @Tags Authentication
// @Security ApiKeyAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.TokenFromRequest(c)
	if token == "" {
		errorResponse(c, http.StatusUnauthorized, "no session found")
		return
	}

	if err := h.Sessions.Destroy(c.Request.Context(), token); err != nil {
		logrus.Error("Error destroying session: ", err)
		errorResponse(c, http.StatusInternalServerError, "failed to end session")
		return
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.Secure, true)
	successResponse(c, http.StatusOK, "logged out", nil)
}

// Me текущий пользователь сессии
// @Summary Профиль текущего пользователя
// @Tags Authentication
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		errorResponse(c, http.StatusUnauthorized, "user is not authenticated")
		return
	}

	ctx := c.Request.Context()
	if user.Role == role.Manager {
		admin, err := h.Accounts.GetAdminByID(ctx, user.ID)
		if err != nil {
			handleError(c, "getting admin", err)
			return
		}
		c.JSON(http.StatusOK, managerUser(admin))
		return
	}

	client, err := h.Accounts.GetClientByID(ctx, user.ID)
	if err != nil {
		handleError(c, "getting client", err)
		return
	}
	c.JSON(http.StatusOK, clientUser(client))
}

func clientUser(client *ds.Client) dto.UserResponse {
	return dto.UserResponse{
		ID:         client.ID,
		Role:       string(role.Client),
		Name:       client.FullName(),
		Email:      client.Email,
		ClientCode: client.Code(),
	}
}

func managerUser(admin *ds.Admin) dto.UserResponse {
	name := admin.FullName
	if name == "" {
		name = admin.Username
	}
	return dto.UserResponse{
		ID:       admin.ID,
		Role:     string(role.Manager),
		Name:     name,
		Username: admin.Username,
	}
}

func cardLast4(number string) string {
	if len(number) < 4 {
		return ""
	}
	return number[len(number)-4:]
}
