package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"cleaning-backend/internal/app/ds"
	"cleaning-backend/internal/app/dto"
	"cleaning-backend/internal/app/middleware"
	"cleaning-backend/internal/app/negotiation"
	"cleaning-backend/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AccountStore учётные записи клиентов и менеджеров
type AccountStore interface {
	CreateClient(ctx context.Context, client *ds.Client) error
	GetClientByID(ctx context.Context, id uint) (*ds.Client, error)
	GetClientByEmail(ctx context.Context, email string) (*ds.Client, error)
	GetAdminByID(ctx context.Context, id uint) (*ds.Admin, error)
	GetAdminByUsername(ctx context.Context, username string) (*ds.Admin, error)
}

// APIHandler содержит обработчики для REST API
type APIHandler struct {
	Service     *negotiation.Service
	Photos      storage.PhotoStorage
	AuthHandler *AuthHandler
}

func NewAPIHandler(service *negotiation.Service, photos storage.PhotoStorage, authHandler *AuthHandler) *APIHandler {
	return &APIHandler{
		Service:     service,
		Photos:      photos,
		AuthHandler: authHandler,
	}
}

// ============ Вспомогательные функции ============

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

func successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// bindError ответ 400 со списком ошибок валидации
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Status:  "fail",
		Message: "invalid request body",
		Errors:  ParseErrors(err),
	})
}

// handleError переводит ошибки сервиса в HTTP статусы
func handleError(c *gin.Context, op string, err error) {
	var validationErr *negotiation.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Status:  "fail",
			Message: "validation failed",
			Errors:  []string{validationErr.Error()},
		})
	case errors.Is(err, negotiation.ErrValidation):
		errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, negotiation.ErrNotFound):
		errorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, negotiation.ErrForbidden):
		errorResponse(c, http.StatusForbidden, "access denied")
	case errors.Is(err, negotiation.ErrInvalidTransition), errors.Is(err, negotiation.ErrNoPendingQuote):
		errorResponse(c, http.StatusConflict, err.Error())
	default:
		logrus.Errorf("Error %s: %v", op, err)
		errorResponse(c, http.StatusInternalServerError, "internal server error")
	}
}

// actor пользователь сессии; false, если middleware не пропустил запрос
func actor(c *gin.Context) (negotiation.Actor, bool) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		errorResponse(c, http.StatusUnauthorized, "authentication required")
		return negotiation.Actor{}, false
	}
	return negotiation.Actor{UserID: user.ID, Role: user.Role}, true
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		errorResponse(c, http.StatusBadRequest, "invalid request id")
		return 0, false
	}
	return uint(id), true
}

func (h *APIHandler) requestResponse(r *ds.ServiceRequest) dto.ServiceRequestResponse {
	return dto.NewServiceRequestResponse(*r, h.Photos.URL)
}

// Ping проверка доступности сервиса
// @Summary Проверка доступности
// @Tags Service
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
