package handler

import (
	"cleaning-backend/internal/app/middleware"
	"cleaning-backend/internal/app/role"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все REST API маршруты с авторизацией
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	RegisterValidators()

	api := router.Group("/api")

	// ============ Аутентификация ============
	auth := api.Group("/auth")
	{
		// Публичные эндпоинты
		auth.POST("/register", h.AuthHandler.Register)
		auth.POST("/login", h.AuthHandler.Login)
		auth.POST("/manager/login", h.AuthHandler.ManagerLogin)

		// Защищенные эндпоинты
		auth.POST("/logout", authMiddleware.WithAuthCheck(), h.AuthHandler.Logout)
		auth.GET("/me", authMiddleware.WithAuthCheck(), h.AuthHandler.Me)
	}

	// Оценка стоимости - без авторизации
	api.GET("/estimate", h.GetEstimate)

	// ============ Заявки ============
	requests := api.Group("/requests")
	{
		// Для всех авторизованных пользователей
		requests.GET("", authMiddleware.WithAuthCheck(role.Client, role.Manager), h.ListRequests)
		requests.GET("/:id", authMiddleware.WithAuthCheck(role.Client, role.Manager), h.GetRequest)

		// Только для клиентов
		requests.POST("", authMiddleware.WithAuthCheck(role.Client), h.CreateRequest)
		requests.POST("/:id/photos", authMiddleware.WithAuthCheck(role.Client), h.UploadPhotos)
		requests.PUT("/:id/quote-response", authMiddleware.WithAuthCheck(role.Client), h.RespondToQuote)
		requests.PUT("/:id/pay", authMiddleware.WithAuthCheck(role.Client), h.SubmitPayment)
		requests.PUT("/:id/dispute", authMiddleware.WithAuthCheck(role.Client), h.DisputeBill)

		// Только для менеджера
		requests.PUT("/:id/quote", authMiddleware.WithAuthCheck(role.Manager), h.IssueQuote)
		requests.PUT("/:id/accept-counter", authMiddleware.WithAuthCheck(role.Manager), h.AcceptCounterOffer)
		requests.PUT("/:id/decline", authMiddleware.WithAuthCheck(role.Manager), h.DeclineRequest)
		requests.PUT("/:id/complete", authMiddleware.WithAuthCheck(role.Manager), h.CompleteRequest)
		requests.PUT("/:id/confirm-payment", authMiddleware.WithAuthCheck(role.Manager), h.ConfirmPayment)
		requests.PUT("/:id/revise-bill", authMiddleware.WithAuthCheck(role.Manager), h.ReviseBill)
	}

	// ============ Журнал (Records) ============
	records := api.Group("/service-requests/:id/records")
	records.Use(authMiddleware.WithAuthCheck(role.Client, role.Manager))
	{
		records.GET("", h.ListRequestRecords)
		records.POST("", h.PostMessage)
	}
	api.GET("/records", authMiddleware.WithAuthCheck(role.Manager), h.ListAllRecords)

	// Фото из локального хранилища
	router.GET("/uploads/*key", h.ServePhoto)

	// Ping эндпоинт для проверки
	router.GET("/ping", h.Ping)
}
