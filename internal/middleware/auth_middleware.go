package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/creativeyMedia/Fwkantine-sub001/config"
	"github.com/creativeyMedia/Fwkantine-sub001/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// CachedSession is the department session data kept in the cache between
// requests so the middleware does not hit the database every time.
type CachedSession struct {
	DepartmentID   uint   `json:"department_id"`
	DepartmentName string `json:"department_name"`
	Role           string `json:"role"`
}

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// AuthMiddleware validates the JWT from the auth_token cookie or the
// Authorization header and puts the department session into the Gin context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("auth_token")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				handleAuthError(c, "Authorization token not provided")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				handleAuthError(c, "Invalid Authorization header format")
				return
			}
			tokenStr = parts[1]
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return config.JwtKey, nil
		})
		if err != nil || !token.Valid {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			handleAuthError(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			handleAuthError(c, "Invalid token claims")
			return
		}

		deptIDFloat, ok := claims["department_id"].(float64)
		if !ok {
			handleAuthError(c, "Invalid department ID in token")
			return
		}
		departmentID := uint(deptIDFloat)

		role, _ := claims["role"].(string)
		if role != RoleEmployee && role != RoleAdmin {
			handleAuthError(c, "Invalid role in token")
			return
		}

		cacheKey := fmt.Sprintf("department:%d:session", departmentID)
		if config.RDB != nil {
			cachedData, err := config.RDB.Get(config.Ctx, cacheKey).Result()
			if err == nil {
				var session CachedSession
				if json.Unmarshal([]byte(cachedData), &session) == nil {
					session.Role = role
					setContextAndProceed(c, &session)
					return
				}
				slog.Warn("failed to unmarshal cached session", "department_id", departmentID)
			} else if err != redis.Nil {
				slog.Error("redis GET failed", "error", err, "department_id", departmentID)
			}
		}

		var department models.Department
		if err := config.DB.First(&department, departmentID).Error; err != nil {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			handleAuthError(c, "Department from token not found")
			return
		}

		session := CachedSession{
			DepartmentID:   department.ID,
			DepartmentName: department.Name,
			Role:           role,
		}

		if config.RDB != nil {
			jsonData, err := json.Marshal(CachedSession{
				DepartmentID:   department.ID,
				DepartmentName: department.Name,
			})
			if err == nil {
				if err := config.RDB.Set(config.Ctx, cacheKey, jsonData, 10*time.Minute).Err(); err != nil {
					slog.Error("failed to cache session", "error", err, "department_id", departmentID)
				}
			}
		}

		setContextAndProceed(c, &session)
	}
}

func setContextAndProceed(c *gin.Context, session *CachedSession) {
	c.Set("department_id", session.DepartmentID)
	c.Set("department_name", session.DepartmentName)
	c.Set("role", session.Role)
	c.Next()
}

// AdminMiddleware rejects requests whose token was not issued through the
// department-admin login.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin permission required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func handleAuthError(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	c.Abort()
}
