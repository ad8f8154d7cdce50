package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/creativeyMedia/Fwkantine-sub001/config"
	"github.com/creativeyMedia/Fwkantine-sub001/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeInput creates an employee in the session department.
type EmployeeInput struct {
	Name string `json:"name" binding:"required"`
}

// CreateEmployeeHandler adds a new employee to the session department with
// zeroed balances.
func CreateEmployeeHandler(c *gin.Context) {
	var input EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	employee := models.Employee{
		Name:         input.Name,
		DepartmentID: sessionDepartmentID(c),
	}
	if err := config.DB.Create(&employee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create employee"})
		return
	}
	c.JSON(http.StatusOK, employee)
}

// ListEmployeesHandler returns the session department's employees with their
// balances, paginated.
func ListEmployeesHandler(c *gin.Context) {
	departmentID := sessionDepartmentID(c)

	var totalRows int64
	config.DB.Model(&models.Employee{}).Where("department_id = ?", departmentID).Count(&totalRows)

	var employees []models.Employee
	if err := config.DB.Where("department_id = ?", departmentID).
		Order("name asc").Scopes(Paginate(c)).Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch employees"})
		return
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, employees, totalRows))
}

// GetEmployeeProfileHandler returns the employee, their home department name
// and a paginated order history.
func GetEmployeeProfileHandler(c *gin.Context) {
	id := c.Param("id")

	var employee models.Employee
	if err := config.DB.Preload("Department").First(&employee, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	var totalRows int64
	config.DB.Model(&models.Order{}).Where("employee_id = ?", employee.ID).Count(&totalRows)

	var orders []models.Order
	if err := config.DB.Where("employee_id = ?", employee.ID).
		Order("order_date desc, id desc").Scopes(Paginate(c)).Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch order history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"employee":        employee,
		"department_name": employee.Department.Name,
		"order_history":   CreatePaginatedResponse(c, orders, totalRows),
	})
}

// GetAllBalancesHandler returns the home balances plus every guest subaccount
// keyed by department id.
func GetAllBalancesHandler(c *gin.Context) {
	id := c.Param("id")

	var employee models.Employee
	if err := config.DB.Preload("SubAccounts").First(&employee, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	type subBalance struct {
		BreakfastBalance    float64 `json:"breakfast_balance"`
		DrinksSweetsBalance float64 `json:"drinks_sweets_balance"`
	}
	subaccounts := map[uint]subBalance{}
	for _, sub := range employee.SubAccounts {
		subaccounts[sub.DepartmentID] = subBalance{
			BreakfastBalance:    sub.BreakfastBalance,
			DrinksSweetsBalance: sub.DrinksSweetsBalance,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"employee_id":           employee.ID,
		"department_id":         employee.DepartmentID,
		"breakfast_balance":     employee.BreakfastBalance,
		"drinks_sweets_balance": employee.DrinksSweetsBalance,
		"subaccount_balances":   subaccounts,
	})
}

// ListEmployeeTransactionsHandler returns the ledger rows of an employee,
// newest first.
func ListEmployeeTransactionsHandler(c *gin.Context) {
	id := c.Param("id")

	var employee models.Employee
	if err := config.DB.First(&employee, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	var totalRows int64
	config.DB.Model(&models.BalanceTransaction{}).Where("employee_id = ?", employee.ID).Count(&totalRows)

	var transactions []models.BalanceTransaction
	if err := config.DB.Where("employee_id = ?", employee.ID).
		Order("id desc").Scopes(Paginate(c)).Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch transactions"})
		return
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, transactions, totalRows))
}

// TemporaryEmployeeInput names the foreign employee to assign as a guest.
type TemporaryEmployeeInput struct {
	EmployeeID uint `json:"employee_id" binding:"required"`
}

// CreateTemporaryEmployeeHandler assigns an employee from another department
// as a guest: it opens the subaccount their guest orders will post to and
// issues an access code. Repeating the assignment returns the existing
// subaccount unchanged.
// POST /api/departments/{dept}/temporary-employees
func CreateTemporaryEmployeeHandler(c *gin.Context) {
	departmentID, err := strconv.ParseUint(c.Param("dept"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department id"})
		return
	}
	if uint(departmentID) != sessionDepartmentID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot manage guests of another department"})
		return
	}

	var input TemporaryEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var employee models.Employee
	if err := config.DB.First(&employee, input.EmployeeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}
	if employee.DepartmentID == uint(departmentID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Employee already belongs to this department"})
		return
	}

	var sub models.SubAccount
	err = config.DB.Where("employee_id = ? AND department_id = ?", employee.ID, departmentID).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sub = models.SubAccount{
			EmployeeID:   employee.ID,
			DepartmentID: uint(departmentID),
			AccessCode:   uuid.NewString(),
		}
		if err := config.DB.Create(&sub).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subaccount"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, sub)
}
