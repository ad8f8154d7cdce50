package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/creativeyMedia/Fwkantine-sub001/config"
	"github.com/creativeyMedia/Fwkantine-sub001/internal/routes"
	"github.com/creativeyMedia/Fwkantine-sub001/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testEmployeePassword = "password1"
	testAdminPassword    = "admin1"
	testDate             = "2025-03-10"
)

var dbCounter int64

// setupRouter builds a fresh in-memory database and a fully routed engine.
// Each test gets its own named shared-cache SQLite so parallel tests cannot
// see each other's data.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Department{},
		&models.MenuItem{},
		&models.Employee{},
		&models.SubAccount{},
		&models.Order{},
		&models.LunchSetting{},
		&models.SponsorEvent{},
		&models.BalanceTransaction{},
	))

	config.DB = db
	config.RDB = nil
	config.JwtKey = []byte("test-secret")

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

// seedDepartment creates a department with known prices, free toppings and a
// lunch price for testDate.
func seedDepartment(t *testing.T, name string) *models.Department {
	t.Helper()

	employeeHash, err := bcrypt.GenerateFromPassword([]byte(testEmployeePassword), bcrypt.MinCost)
	require.NoError(t, err)
	adminHash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	department := models.Department{
		Name:             name,
		EmployeePassword: string(employeeHash),
		AdminPassword:    string(adminHash),
		WhiteRollPrice:   0.50,
		SeededRollPrice:  0.60,
		BoiledEggPrice:   0.50,
		FriedEggPrice:    0.50,
		CoffeePrice:      1.50,
	}
	require.NoError(t, config.DB.Create(&department).Error)

	for _, topping := range []string{"Butter", "Käse"} {
		require.NoError(t, config.DB.Create(&models.MenuItem{
			DepartmentID: department.ID,
			Category:     models.MenuCategoryTopping,
			Name:         topping,
		}).Error)
	}

	date, err := time.Parse("2006-01-02", testDate)
	require.NoError(t, err)
	require.NoError(t, config.DB.Create(&models.LunchSetting{
		DepartmentID: department.ID,
		Date:         date,
		Price:        5.00,
	}).Error)

	return &department
}

func seedEmployee(t *testing.T, departmentID uint, name string) *models.Employee {
	t.Helper()
	employee := models.Employee{Name: name, DepartmentID: departmentID}
	require.NoError(t, config.DB.Create(&employee).Error)
	return &employee
}

// login runs the real login endpoint and returns the issued token.
func login(t *testing.T, r *gin.Engine, departmentName, password, path string) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, path, "", gin.H{
		"department_name": departmentName,
		"password":        password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	return response.Token
}

func employeeLogin(t *testing.T, r *gin.Engine, departmentName string) string {
	return login(t, r, departmentName, testEmployeePassword, "/api/login/department")
}

func adminLogin(t *testing.T, r *gin.Engine, departmentName string) string {
	return login(t, r, departmentName, testAdminPassword, "/api/login/department-admin")
}

// doJSON issues a request with an optional bearer token and JSON body.
func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// placeBreakfast creates a standard breakfast order and returns the decoded
// response.
func placeBreakfast(t *testing.T, r *gin.Engine, token string, employeeID uint, items gin.H) map[string]interface{} {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/orders", token, gin.H{
		"employee_id":     employeeID,
		"order_type":      "breakfast",
		"date":            testDate,
		"breakfast_items": items,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	return order
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func reloadEmployee(t *testing.T, id uint) *models.Employee {
	t.Helper()
	var employee models.Employee
	require.NoError(t, config.DB.First(&employee, id).Error)
	return &employee
}
