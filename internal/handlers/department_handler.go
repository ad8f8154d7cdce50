package handlers

import (
	"net/http"
	"strconv"

	"github.com/creativeyMedia/Fwkantine-sub001/config"
	"github.com/creativeyMedia/Fwkantine-sub001/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// GetDepartmentSettingsHandler returns prices and menu of a department.
// Password hashes never leave the model (json:"-").
func GetDepartmentSettingsHandler(c *gin.Context) {
	departmentID, err := strconv.ParseUint(c.Param("dept"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department id"})
		return
	}

	var department models.Department
	if err := config.DB.Preload("MenuItems").First(&department, departmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
		return
	}
	c.JSON(http.StatusOK, department)
}

// PricesInput updates the breakfast unit prices. Pointers keep "not sent"
// distinguishable from an explicit zero.
type PricesInput struct {
	WhiteRollPrice  *float64 `json:"white_roll_price"`
	SeededRollPrice *float64 `json:"seeded_roll_price"`
	BoiledEggPrice  *float64 `json:"boiled_egg_price"`
	FriedEggPrice   *float64 `json:"fried_egg_price"`
	CoffeePrice     *float64 `json:"coffee_price"`
}

// UpdateDepartmentPricesHandler changes breakfast unit prices. Existing
// orders keep their cost snapshot; only new orders see the new prices.
func UpdateDepartmentPricesHandler(c *gin.Context) {
	department, ok := loadOwnDepartment(c)
	if !ok {
		return
	}

	var input PricesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if input.WhiteRollPrice != nil {
		department.WhiteRollPrice = round2(*input.WhiteRollPrice)
	}
	if input.SeededRollPrice != nil {
		department.SeededRollPrice = round2(*input.SeededRollPrice)
	}
	if input.BoiledEggPrice != nil {
		department.BoiledEggPrice = round2(*input.BoiledEggPrice)
	}
	if input.FriedEggPrice != nil {
		department.FriedEggPrice = round2(*input.FriedEggPrice)
	}
	if input.CoffeePrice != nil {
		department.CoffeePrice = round2(*input.CoffeePrice)
	}

	if err := config.DB.Save(department).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update prices"})
		return
	}
	c.JSON(http.StatusOK, department)
}

// PasswordsInput rotates one or both department passwords.
type PasswordsInput struct {
	EmployeePassword string `json:"employee_password"`
	AdminPassword    string `json:"admin_password"`
}

// UpdateDepartmentPasswordsHandler re-hashes the provided passwords.
func UpdateDepartmentPasswordsHandler(c *gin.Context) {
	department, ok := loadOwnDepartment(c)
	if !ok {
		return
	}

	var input PasswordsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if input.EmployeePassword == "" && input.AdminPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No password provided"})
		return
	}

	if input.EmployeePassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.EmployeePassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		department.EmployeePassword = string(hash)
	}
	if input.AdminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		department.AdminPassword = string(hash)
	}

	if err := config.DB.Save(department).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update passwords"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Passwords updated"})
}

// MenuItemInput creates or updates a priced menu entry.
type MenuItemInput struct {
	Category string  `json:"category" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price"`
}

// CreateMenuItemHandler adds a topping, drink or sweet to the menu.
func CreateMenuItemHandler(c *gin.Context) {
	department, ok := loadOwnDepartment(c)
	if !ok {
		return
	}

	var input MenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if !validMenuCategory(input.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category: " + input.Category})
		return
	}

	item := models.MenuItem{
		DepartmentID: department.ID,
		Category:     input.Category,
		Name:         input.Name,
		Price:        round2(input.Price),
	}
	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create menu item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateMenuItemHandler changes name or price of a menu entry. Orders keep
// their snapshot prices.
func UpdateMenuItemHandler(c *gin.Context) {
	department, ok := loadOwnDepartment(c)
	if !ok {
		return
	}

	var item models.MenuItem
	if err := config.DB.Where("id = ? AND department_id = ?", c.Param("id"), department.ID).
		First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}

	var input MenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if !validMenuCategory(input.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category: " + input.Category})
		return
	}

	item.Category = input.Category
	item.Name = input.Name
	item.Price = round2(input.Price)
	if err := config.DB.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update menu item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteMenuItemHandler soft-deletes a menu entry.
func DeleteMenuItemHandler(c *gin.Context) {
	department, ok := loadOwnDepartment(c)
	if !ok {
		return
	}

	result := config.DB.Where("id = ? AND department_id = ?", c.Param("id"), department.ID).
		Delete(&models.MenuItem{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete menu item"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

func validMenuCategory(category string) bool {
	switch category {
	case models.MenuCategoryTopping, models.MenuCategoryDrink, models.MenuCategorySweet:
		return true
	}
	return false
}

// loadOwnDepartment resolves the {dept} path parameter and rejects requests
// that try to modify a department other than the session's.
func loadOwnDepartment(c *gin.Context) (*models.Department, bool) {
	departmentID, err := strconv.ParseUint(c.Param("dept"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department id"})
		return nil, false
	}
	if uint(departmentID) != sessionDepartmentID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot modify another department"})
		return nil, false
	}

	var department models.Department
	if err := config.DB.First(&department, departmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
		return nil, false
	}
	return &department, true
}
