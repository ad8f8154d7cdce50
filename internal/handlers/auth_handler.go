package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/creativeyMedia/Fwkantine-sub001/config"
	"github.com/creativeyMedia/Fwkantine-sub001/internal/middleware"
	"github.com/creativeyMedia/Fwkantine-sub001/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// LoginInput carries the shared department credentials. Both logins use the
// department name plus one of its two passwords.
type LoginInput struct {
	DepartmentName string `json:"department_name" binding:"required"`
	Password       string `json:"password" binding:"required"`
}

// ListDepartmentsHandler returns the id/name list for the login picker. This
// is the only unauthenticated data endpoint.
func ListDepartmentsHandler(c *gin.Context) {
	type departmentEntry struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	var departments []departmentEntry
	if err := config.DB.Model(&models.Department{}).Order("name asc").
		Find(&departments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch departments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": departments})
}

// LoginDepartmentHandler authenticates against the shared employee password.
func LoginDepartmentHandler(c *gin.Context) {
	loginWithRole(c, middleware.RoleEmployee)
}

// LoginDepartmentAdminHandler authenticates against the admin password.
func LoginDepartmentAdminHandler(c *gin.Context) {
	loginWithRole(c, middleware.RoleAdmin)
}

func loginWithRole(c *gin.Context, role string) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var department models.Department
	if err := config.DB.Where("name = ?", input.DepartmentName).First(&department).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid department or password"})
		return
	}

	hash := department.EmployeePassword
	if role == middleware.RoleAdmin {
		hash = department.AdminPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid department or password"})
		return
	}

	claims := jwt.MapClaims{
		"department_id": department.ID,
		"role":          role,
		"exp":           time.Now().Add(12 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(config.JwtKey)
	if err != nil {
		slog.Error("failed to sign token", "error", err, "department_id", department.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create session"})
		return
	}

	c.SetCookie("auth_token", tokenStr, int((12 * time.Hour).Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token":           tokenStr,
		"department_id":   department.ID,
		"department_name": department.Name,
		"role":            role,
	})
}
