package handler

import (
	"net/http"

	"cleaning-backend/internal/app/dto"

	"github.com/gin-gonic/gin"
)

// ListRequestRecords журнал переговоров по заявке
// @Summary Журнал заявки
// @Description Предложения и сообщения, новые сверху
// @Tags Records
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.RecordListResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/service-requests/{id}/records [get]
func (h *APIHandler) ListRequestRecords(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	records, err := h.Service.ListRecords(c.Request.Context(), a, &id)
	if err != nil {
		handleError(c, "listing records", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRecordList(records))
}

// ListAllRecords журнал по всем заявкам
// @Summary Журнал всех заявок
// @Tags Records
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.RecordListResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/records [get]
func (h *APIHandler) ListAllRecords(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	records, err := h.Service.ListRecords(c.Request.Context(), a, nil)
	if err != nil {
		handleError(c, "listing records", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRecordList(records))
}

// PostMessage сообщение в переписке по заявке
// @Summary Отправить сообщение
// @Tags Records
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID заявки"
// @Param request body dto.CreateMessageRequest true "Текст сообщения"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/service-requests/{id}/records [post]
func (h *APIHandler) PostMessage(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var request dto.CreateMessageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		bindError(c, err)
		return
	}

	recordID, err := h.Service.AppendMessage(c.Request.Context(), a, id, request.MessageBody)
	if err != nil {
		handleError(c, "appending message", err)
		return
	}

	successResponse(c, http.StatusCreated, "message added", gin.H{"record_id": recordID})
}
