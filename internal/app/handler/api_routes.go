package handler

import (
	"greenbites/internal/app/middleware"
	"greenbites/internal/app/role"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterAPIRoutes регистрирует все REST API маршруты с авторизацией
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// ============ Пожертвования (Donations) ============
	donations := api.Group("/donations")
	{
		donations.POST("", authMiddleware.WithAuthCheck(role.Donor, role.Admin), h.CreateDonation)
		donations.GET("", authMiddleware.WithAuthCheck(), h.GetDonations)
		donations.GET("/:id", authMiddleware.WithAuthCheck(), h.GetDonation)
		donations.PUT("/:id", authMiddleware.WithAuthCheck(role.Donor, role.Admin), h.UpdateDonation)

		// Переходы статусов
		donations.PUT("/:id/claim", authMiddleware.WithAuthCheck(role.Recipient, role.Admin), h.ClaimDonation)
		donations.PUT("/:id/complete", authMiddleware.WithAuthCheck(), h.CompleteDonation)
		donations.PUT("/:id/rate", authMiddleware.WithAuthCheck(), h.RateDonation)
		donations.PUT("/:id/cancel", authMiddleware.WithAuthCheck(), h.CancelDonation)

		donations.POST("/:id/image", authMiddleware.WithAuthCheck(role.Donor, role.Admin), h.UploadDonationImage)
	}

	// ============ Заявки (Requests) ============
	requests := api.Group("/requests")
	{
		requests.POST("", authMiddleware.WithAuthCheck(role.Recipient, role.Admin), h.CreateRequest)
		requests.GET("", authMiddleware.WithAuthCheck(), h.GetRequests)
		requests.GET("/:id", authMiddleware.WithAuthCheck(), h.GetRequest)
		requests.PUT("/:id", authMiddleware.WithAuthCheck(role.Recipient, role.Admin), h.UpdateRequest)

		// Переходы статусов: approve/reject только для донора-владельца или админа,
		// проверка владения выполняется в ядре
		requests.PUT("/:id/approve", authMiddleware.WithAuthCheck(role.Donor, role.Admin), h.ApproveRequest)
		requests.PUT("/:id/reject", authMiddleware.WithAuthCheck(role.Donor, role.Admin), h.RejectRequest)
		requests.PUT("/:id/complete", authMiddleware.WithAuthCheck(), h.CompleteRequest)
		requests.DELETE("/:id", authMiddleware.WithAuthCheck(), h.CancelRequest)
	}

	// ============ Отчеты (Analytics) ============
	analytics := api.Group("/analytics")
	{
		analytics.GET("/dashboard", authMiddleware.WithAuthCheck(), h.GetDashboard)
		analytics.GET("/food-waste", authMiddleware.WithAuthCheck(role.Admin, role.Analyst), h.GetFoodWaste)
		analytics.GET("/impact", authMiddleware.WithAuthCheck(role.Admin, role.Analyst), h.GetImpact)
	}

	// ============ Пользователи (только администраторы) ============
	users := api.Group("/users")
	users.Use(authMiddleware.WithAuthCheck(role.Admin))
	{
		users.GET("", h.GetUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
		users.PUT("/:id/toggle-status", h.ToggleUserStatus)
	}

	// ============ Аутентификация ============
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.AuthHandler.RegisterUser)
		auth.POST("/login", h.AuthHandler.LoginUser)

		auth.GET("/profile", authMiddleware.WithAuthCheck(), h.AuthHandler.GetUserProfile)
		auth.PUT("/profile", authMiddleware.WithAuthCheck(), h.AuthHandler.UpdateProfile)
		auth.POST("/logout", authMiddleware.WithAuthCheck(), h.AuthHandler.LogoutUser)
	}

	// Ping эндпоинт для проверки
	router.GET("/ping", h.Ping)

	// Swagger документация
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"message": "pong"})
}
