package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"cleaning-backend/internal/app/ds"
	"cleaning-backend/internal/app/dto"
	"cleaning-backend/internal/app/negotiation"
	"cleaning-backend/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxPhotoSize = 5 << 20

// CreateRequest создание заявки клиентом
// @Summary Создание заявки на уборку
// @Description Ориентировочная стоимость считается сервером, заявка создаётся в состоянии new
// @Tags Requests
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateServiceRequest true "Параметры заявки"
// @Success 201 {object} dto.ServiceRequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/requests [post]
func (h *APIHandler) CreateRequest(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var request dto.CreateServiceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		bindError(c, err)
		return
	}

	date, err := time.Parse("2006-01-02", request.RequestedDate)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "requested_date must be a date in format 2006-01-02")
		return
	}

	created, err := h.Service.CreateRequest(c.Request.Context(), a, negotiation.CreateRequestInput{
		ServiceType:   request.ServiceType,
		NumRooms:      request.NumRooms,
		RequestedDate: date,
		Address:       request.Address,
		Note:          request.Note,
		ClientBudget:  request.ClientBudget,
		AddOutdoor:    request.AddOutdoor,
	})
	if err != nil {
		handleError(c, "creating service request", err)
		return
	}

	c.JSON(http.StatusCreated, h.requestResponse(created))
}

// ListRequests список заявок
// @Summary Список заявок
// @Description Клиент видит только свои заявки, менеджер все
// @Tags Requests
// @Security ApiKeyAuth
// @Produce json
// @Param state query string false "Фильтр по состоянию"
// @Success 200 {object} dto.ServiceRequestListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/requests [get]
func (h *APIHandler) ListRequests(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	requests, err := h.Service.ListRequests(c.Request.Context(), a, ds.RequestState(c.Query("state")))
	if err != nil {
		handleError(c, "listing service requests", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewServiceRequestList(requests, h.Photos.URL))
}

// GetRequest заявка по ID
// @Summary Получение заявки
// @Tags Requests
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.ServiceRequestResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/requests/{id} [get]
func (h *APIHandler) GetRequest(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	req, err := h.Service.GetRequest(c.Request.Context(), a, id)
	if err != nil {
		handleError(c, "getting service request", err)
		return
	}

	c.JSON(http.StatusOK, h.requestResponse(req))
}

// UploadPhotos загрузка фото к заявке
// @Summary Загрузка фото
// @Description Поле формы photos, не более 5 фото на заявку
// @Tags Requests
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID заявки"
// @Param photos formData file true "Фото"
// @Success 200 {object} dto.ServiceRequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/requests/{id}/photos [post]
func (h *APIHandler) UploadPhotos(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	// доступ проверяем до записи файлов
	if _, err := h.Service.GetRequest(ctx, a, id); err != nil {
		handleError(c, "getting service request", err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "no files found in request")
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		errorResponse(c, http.StatusBadRequest, "no files found in request")
		return
	}
	if len(files) > ds.MaxPhotos {
		errorResponse(c, http.StatusBadRequest, "too many files")
		return
	}

	keys := make([]string, 0, len(files))
	rollback := func() {
		for _, key := range keys {
			if err := h.Photos.Delete(ctx, key); err != nil {
				logrus.Warnf("Failed to delete photo %s: %v", key, err)
			}
		}
	}

	for _, file := range files {
		if file.Size > maxPhotoSize {
			rollback()
			errorResponse(c, http.StatusBadRequest, "file "+file.Filename+" exceeds 5 MB")
			return
		}

		opened, err := file.Open()
		if err != nil {
			rollback()
			errorResponse(c, http.StatusInternalServerError, "failed to read file")
			return
		}
		data, err := io.ReadAll(opened)
		opened.Close()
		if err != nil {
			rollback()
			errorResponse(c, http.StatusInternalServerError, "failed to read file")
			return
		}

		key, err := h.Photos.Save(ctx, id, data, file.Filename)
		if err != nil {
			rollback()
			if errors.Is(err, storage.ErrUnsupportedType) {
				errorResponse(c, http.StatusBadRequest, err.Error())
				return
			}
			logrus.Errorf("Error saving photo for request %d: %v", id, err)
			errorResponse(c, http.StatusInternalServerError, "failed to upload image")
			return
		}
		keys = append(keys, key)
	}

	updated, err := h.Service.AttachPhotos(ctx, a, id, keys)
	if err != nil {
		rollback()
		handleError(c, "attaching photos", err)
		return
	}

	c.JSON(http.StatusOK, h.requestResponse(updated))
}

// ServePhoto отдаёт фото из локального хранилища
func (h *APIHandler) ServePhoto(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	file, err := h.Photos.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			errorResponse(c, http.StatusNotFound, "file not found")
			return
		}
		logrus.Errorf("Error opening photo %s: %v", key, err)
		errorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}
	defer file.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, -1, storage.ContentType(key), file, nil)
}
