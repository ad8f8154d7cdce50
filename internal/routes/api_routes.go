package routes

import (
	"github.com/creativeyMedia/Fwkantine-sub001/internal/handlers"
	"github.com/creativeyMedia/Fwkantine-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes registers all authenticated API routes.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	apiGroup := api.Group("/api")
	{
		// --- EMPLOYEES ---
		employees := apiGroup.Group("/employees")
		{
			employees.POST("", handlers.CreateEmployeeHandler)
			employees.GET("", handlers.ListEmployeesHandler)
			employees.GET("/:id/profile", handlers.GetEmployeeProfileHandler)
			employees.GET("/:id/all-balances", handlers.GetAllBalancesHandler)
			employees.GET("/:id/transactions", handlers.ListEmployeeTransactionsHandler)
		}

		// --- ORDERS ---
		orders := apiGroup.Group("/orders")
		{
			orders.POST("", handlers.CreateOrderHandler)
			orders.GET("/daily-summary/:dept", handlers.DailySummaryHandler)
			orders.GET("/daily-summary/:dept/export", handlers.ExportDailySummaryHandler)
			orders.GET("/breakfast-history/:dept", handlers.BreakfastHistoryHandler)
		}

		// Employee self-cancel keeps the path shape the clients use.
		apiGroup.DELETE("/employee/:id/orders/:order_id", handlers.CancelOrderByEmployeeHandler)

		// --- LIVE ORDER FEED ---
		apiGroup.GET("/ws/orders", handlers.OrderFeedEndpoint)

		// --- LUNCH SETTINGS ---
		apiGroup.GET("/lunch-settings", handlers.GetLunchSettingsHandler)
		apiGroup.PUT("/lunch-settings", middleware.AdminMiddleware(), handlers.UpdateLunchSettingsHandler)

		// --- DEPARTMENT SETTINGS ---
		settings := apiGroup.Group("/department-settings/:dept")
		{
			settings.GET("", handlers.GetDepartmentSettingsHandler)
			settings.PUT("/prices", middleware.AdminMiddleware(), handlers.UpdateDepartmentPricesHandler)
			settings.PUT("/passwords", middleware.AdminMiddleware(), handlers.UpdateDepartmentPasswordsHandler)
			settings.POST("/menu", middleware.AdminMiddleware(), handlers.CreateMenuItemHandler)
			settings.PUT("/menu/:id", middleware.AdminMiddleware(), handlers.UpdateMenuItemHandler)
			settings.DELETE("/menu/:id", middleware.AdminMiddleware(), handlers.DeleteMenuItemHandler)
		}

		// --- DEPARTMENT ADMIN ---
		admin := apiGroup.Group("/department-admin")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("/sponsor-meal", handlers.SponsorMealHandler)
			admin.DELETE("/orders/:id", handlers.CancelOrderByAdminHandler)
		}

		// --- GUEST EMPLOYEES ---
		apiGroup.POST("/departments/:dept/temporary-employees",
			middleware.AdminMiddleware(), handlers.CreateTemporaryEmployeeHandler)
	}
}
