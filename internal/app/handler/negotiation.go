package handler

import (
	"net/http"

	"cleaning-backend/internal/app/ds"
	"cleaning-backend/internal/app/dto"
	"cleaning-backend/internal/app/negotiation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// ============ Действия менеджера ============

// IssueQuote предложение цены и времени
// @Summary Выставить цену
// @Description Допустимо из new и pending_response; прежнее неотвеченное предложение помечается superseded
// @Tags Negotiation
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID заявки"
// @Param request body dto.QuoteRequest true "Цена и время"
// @Success 200 {object} dto.ServiceRequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id}/quote [put]
func (h *APIHandler) IssueQuote(c *gin.Context) {
	var request dto.QuoteRequest
	h.transition(c, &request, "issuing quote", func(a negotiation.Actor, id uint) (*ds.ServiceRequest, error) {
		scheduled := request.ScheduledTime
		return h.Service.IssueQuote(c.Request.Context(), a, id, negotiation.QuoteInput{
			Price:         request.Price,
			ScheduledTime: &scheduled,
			Note:          request.Note,
		})
	})
}

// AcceptCounterOffer менеджер принимает встречное предложение клиента
// @Summary Принять встречное предложение
// @Tags Negotiation
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID заявки"
// @Param request body dto.AcceptCounterRequest false "Время и комментарий"
// @Success 200 {object} dto.ServiceRequestResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id}/accept-counter [put]
func (h *APIHandler) AcceptCounterOffer(c *gin.Context) {
	var request dto.AcceptCounterRequest
	h.transition(c, &request, "accepting counter offer", func(a negotiation.Actor, id uint) (*ds.ServiceRequest, error) {
		return h.Service.AcceptCounterOffer(c.Request.Context(), a, id, negotiation.AcceptCounterInput{
			ScheduledTime: request.ScheduledTime,
			Note:          request.Note,
		})
	})
}

// DeclineRequest отказ по заявке
// @Summary Отклонить заявку
// @Tags Negotiation
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID заявки"
// @Param request body dto.DeclineRequest true "Причина"
// @Success 200 {object} dto.ServiceRequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id}/decline [put]
func (h *APIHandler) DeclineRequest(c *gin.Context) {
	var request dto.DeclineRequest
	h.transition(c, &request, "declining request", func(a negotiation.Actor, id uint) (*ds.ServiceRequest, error) {
		return h.Service.Decline(c.Request.Context(), a, id, request.Reason)
	})
}

// CompleteRequest отметка о выполненной уборке
// @Summary Завершить уборку
// @Tags Negotiation
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID заявки"
// @Param request body dto.CompleteRequest false "Комментарий"
// @Success 200 {object} dto.ServiceRequestResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id}/complete [put]
func (h *APIHandler) CompleteRequest(c *gin.Context) {
	var request dto.CompleteRequest
	h.transition(c, &request, "completing request", func(a negotiation.Actor, id uint) (*ds.ServiceRequest, error) {
		return h.Service.Complete(c.Request.Context(), a, id, request.Note)
	})
}

// ConfirmPayment подтверждение оплаты менеджером
// @Summary Подтвердить оплату
// @Tags Negotiation
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.ServiceRequestResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id}/confirm-payment [put]
func (h *APIHandler) ConfirmPayment(c *gin.Context) {
	h.transition(c, nil, "confirming payment", func(a negotiation.Actor, id uint) (*ds.ServiceRequest, error) {
		return h.Service.ConfirmPayment(c.Request.Context(), a, id)
	})
}

// ReviseBill новый счёт после спора клиента
// @Summary Пересмотреть счёт
// @Tags Negotiation
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID заявки"
// @Param request body dto.ReviseBillRequest true "Новая сумма"
// @Success 200 {object} dto.ServiceRequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id}/revise-bill [put]
func (h *APIHandler) ReviseBill(c *gin.Context) {
	var request dto.ReviseBillRequest
	h.transition(c, &request, "revising bill", func(a negotiation.Actor, id uint) (*ds.ServiceRequest, error) {
		return h.Service.ReviseBill(c.Request.Context(), a, id, negotiation.QuoteInput{
			Price: request.Price,
			Note:  request.Note,
		})
	})
}

// ============ Действия клиента ============

// RespondToQuote ответ клиента на предложение менеджера
// @Summary Ответ на предложение
// @Description action: accept, counter (нужна price) или cancel
// @Tags Negotiation
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID заявки"
// @Param request body dto.QuoteResponseRequest true "Ответ"
// @Success 200 {object} dto.ServiceRequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id}/quote-response [put]
func (h *APIHandler) RespondToQuote(c *gin.Context) {
	var request dto.QuoteResponseRequest
	h.transition(c, &request, "responding to quote", func(a negotiation.Actor, id uint) (*ds.ServiceRequest, error) {
		ctx := c.Request.Context()
		switch request.Action {
		case "accept":
			return h.Service.AcceptQuote(ctx, a, id, request.Note)
		case "counter":
			return h.Service.CounterOffer(ctx, a, id, negotiation.CounterInput{
				Price:        request.Price,
				Note:         request.Note,
				ProposedTime: request.ProposedTime,
			})
		default:
			return h.Service.Cancel(ctx, a, id, request.Note)
		}
	})
}

// SubmitPayment клиент сообщает об оплате
// @Summary Оплатить
// @Tags Negotiation
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.ServiceRequestResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id}/pay [put]
func (h *APIHandler) SubmitPayment(c *gin.Context) {
	h.transition(c, nil, "submitting payment", func(a negotiation.Actor, id uint) (*ds.ServiceRequest, error) {
		return h.Service.SubmitPayment(c.Request.Context(), a, id)
	})
}

// DisputeBill клиент оспаривает счёт
// @Summary Оспорить счёт
// @Tags Negotiation
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID заявки"
// @Param request body dto.DisputeRequest true "Причина спора"
// @Success 200 {object} dto.ServiceRequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id}/dispute [put]
func (h *APIHandler) DisputeBill(c *gin.Context) {
	var request dto.DisputeRequest
	h.transition(c, &request, "disputing bill", func(a negotiation.Actor, id uint) (*ds.ServiceRequest, error) {
		return h.Service.Dispute(c.Request.Context(), a, id, request.DisputeNote)
	})
}

// transition общий разбор запроса для переходов заявки. body nil - тела нет.
// Пустое тело допустимо, если в нём нет обязательных полей
func (h *APIHandler) transition(c *gin.Context, body any, op string, run func(a negotiation.Actor, id uint) (*ds.ServiceRequest, error)) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if body != nil {
		var err error
		if c.Request.ContentLength == 0 {
			err = binding.Validator.ValidateStruct(body)
		} else {
			err = c.ShouldBindJSON(body)
		}
		if err != nil {
			bindError(c, err)
			return
		}
	}

	updated, err := run(a, id)
	if err != nil {
		handleError(c, op, err)
		return
	}

	c.JSON(http.StatusOK, h.requestResponse(updated))
}
