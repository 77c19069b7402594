package handler

import (
	"net/http"

	"cleaning-backend/internal/app/dto"
	"cleaning-backend/internal/app/pricing"

	"github.com/gin-gonic/gin"
)

// GetEstimate ориентировочная стоимость уборки
// @Summary Оценка стоимости
// @Description Базовая цена за комнату по типу услуги плюс 40 за уборку снаружи
// @Tags Estimate
// @Produce json
// @Param service_type query string true "Basic, Deep Clean или Move Out"
// @Param num_rooms query int true "Количество комнат"
// @Param add_outdoor query bool false "Уборка снаружи"
// @Success 200 {object} dto.EstimateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/estimate [get]
func (h *APIHandler) GetEstimate(c *gin.Context) {
	var query dto.EstimateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	estimate, err := pricing.Estimate(query.ServiceType, query.NumRooms, query.AddOutdoor)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.EstimateResponse{
		ServiceType: query.ServiceType,
		NumRooms:    query.NumRooms,
		AddOutdoor:  query.AddOutdoor,
		Estimate:    estimate,
	})
}
