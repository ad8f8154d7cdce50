package routes

import (
	"github.com/creativeyMedia/Fwkantine-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all routes of the application. Login and the department
// picker stay public, everything else sits behind the JWT middleware.
func SetupRoutes(r *gin.Engine) {
	RegisterAuthRoutes(r)

	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAPIRoutes(authRequired)
	}
}
