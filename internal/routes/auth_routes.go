package routes

import (
	"github.com/creativeyMedia/Fwkantine-sub001/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the public routes that do not require a token.
func RegisterAuthRoutes(r *gin.Engine) {
	r.GET("/api/departments", handlers.ListDepartmentsHandler)
	r.POST("/api/login/department", handlers.LoginDepartmentHandler)
	r.POST("/api/login/department-admin", handlers.LoginDepartmentAdminHandler)
}
