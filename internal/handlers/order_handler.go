package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/creativeyMedia/Fwkantine-sub001/config"
	"github.com/creativeyMedia/Fwkantine-sub001/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BreakfastInput mirrors the breakfast composition on the wire. White and
// seeded halves must add up to total_halves.
type BreakfastInput struct {
	TotalHalves  int      `json:"total_halves"`
	WhiteHalves  int      `json:"white_halves"`
	SeededHalves int      `json:"seeded_halves"`
	Toppings     []string `json:"toppings"`
	BoiledEggs   int      `json:"boiled_eggs"`
	FriedEggs    int      `json:"fried_eggs"`
	HasCoffee    bool     `json:"has_coffee"`
	HasLunch     bool     `json:"has_lunch"`
}

// OrderInput is the create-order payload. Breakfast orders fill
// breakfast_items, drinks and sweets orders fill items (menu item id ->
// quantity). The date defaults to today.
type OrderInput struct {
	EmployeeID uint            `json:"employee_id" binding:"required"`
	OrderType  string          `json:"order_type" binding:"required"`
	Date       string          `json:"date"`
	Notes      string          `json:"notes"`
	Breakfast  *BreakfastInput `json:"breakfast_items"`
	Items      map[uint]int    `json:"items"`
}

// CreateOrderHandler prices and stores a new order and posts the amount to
// the employee's account in the session department. Guests must have been
// assigned a subaccount first.
func CreateOrderHandler(c *gin.Context) {
	var input OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	departmentID := sessionDepartmentID(c)

	orderDate := today()
	if input.Date != "" {
		parsed, err := parseDate(input.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
			return
		}
		orderDate = parsed
	}

	var employee models.Employee
	if err := config.DB.First(&employee, input.EmployeeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	var department models.Department
	if err := config.DB.First(&department, departmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
		return
	}

	order := models.Order{
		EmployeeID:   employee.ID,
		DepartmentID: departmentID,
		OrderType:    input.OrderType,
		OrderDate:    orderDate,
		Notes:        input.Notes,
	}

	var account string
	switch input.OrderType {
	case models.OrderTypeBreakfast:
		if input.Breakfast == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "breakfast_items is required for breakfast orders"})
			return
		}
		detail, err := priceBreakfast(&department, input.Breakfast, orderDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order.Breakfast = *detail
		order.TotalPrice = round2(detail.RollsCost + detail.EggsCost + detail.CoffeeCost + detail.LunchCost)
		account = models.AccountBreakfast

	case models.OrderTypeDrinks, models.OrderTypeSweets:
		gross, items, err := priceItems(departmentID, input.OrderType, input.Items)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order.Items = items
		// Stored negative: drinks and sweets show up as debit rows.
		order.TotalPrice = round2(-gross)
		account = models.AccountDrinksSweets

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order_type: " + input.OrderType})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		// Breakfast debits are the positive total, drinks/sweets totals are
		// already negative. Both postings therefore subtract from balance.
		posting := order.TotalPrice
		if order.OrderType == models.OrderTypeBreakfast {
			posting = -order.TotalPrice
		}
		return postToAccount(tx, &employee, departmentID, account, posting, models.TxReasonOrder, &order.ID)
	})
	if err != nil {
		if errors.Is(err, ErrNoSubAccount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Employee is not assigned to this department"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	invalidateSummaryCache(departmentID, orderDate)
	OrderFeed.Publish(departmentID, OrderEvent{Type: "order_created", Order: &order})

	c.JSON(http.StatusOK, order)
}

// priceBreakfast resolves unit prices and writes the cost snapshot the order
// keeps for its whole lifetime.
func priceBreakfast(department *models.Department, input *BreakfastInput, date time.Time) (*models.BreakfastDetail, error) {
	if input.TotalHalves < 0 || input.WhiteHalves < 0 || input.SeededHalves < 0 ||
		input.BoiledEggs < 0 || input.FriedEggs < 0 {
		return nil, errors.New("quantities must not be negative")
	}
	if input.WhiteHalves+input.SeededHalves != input.TotalHalves {
		return nil, errors.New("white_halves and seeded_halves must add up to total_halves")
	}
	if input.TotalHalves == 0 && input.BoiledEggs == 0 && input.FriedEggs == 0 &&
		!input.HasCoffee && !input.HasLunch {
		return nil, errors.New("breakfast order is empty")
	}

	rollsCost := float64(input.WhiteHalves)*department.WhiteRollPrice +
		float64(input.SeededHalves)*department.SeededRollPrice

	for _, topping := range input.Toppings {
		var item models.MenuItem
		err := config.DB.Where("department_id = ? AND category = ? AND name = ?",
			department.ID, models.MenuCategoryTopping, topping).First(&item).Error
		if err != nil {
			return nil, fmt.Errorf("unknown topping: %s", topping)
		}
		rollsCost += item.Price
	}

	eggsCost := float64(input.BoiledEggs)*department.BoiledEggPrice +
		float64(input.FriedEggs)*department.FriedEggPrice

	var coffeeCost float64
	if input.HasCoffee {
		coffeeCost = department.CoffeePrice
	}

	var lunchCost float64
	if input.HasLunch {
		var setting models.LunchSetting
		err := config.DB.Where("department_id = ? AND date = ?", department.ID, date).
			First(&setting).Error
		if err != nil {
			return nil, errors.New("no lunch price set for this date")
		}
		lunchCost = setting.Price
	}

	return &models.BreakfastDetail{
		TotalHalves:  input.TotalHalves,
		WhiteHalves:  input.WhiteHalves,
		SeededHalves: input.SeededHalves,
		Toppings:     input.Toppings,
		BoiledEggs:   input.BoiledEggs,
		FriedEggs:    input.FriedEggs,
		HasCoffee:    input.HasCoffee,
		HasLunch:     input.HasLunch,
		RollsCost:    round2(rollsCost),
		EggsCost:     round2(eggsCost),
		CoffeeCost:   round2(coffeeCost),
		LunchCost:    round2(lunchCost),
	}, nil
}

// priceItems validates a drinks/sweets basket against the department menu and
// returns the gross (positive) total.
func priceItems(departmentID uint, orderType string, items map[uint]int) (float64, models.ItemQuantities, error) {
	if len(items) == 0 {
		return 0, nil, errors.New("items must not be empty")
	}
	category := models.MenuCategoryDrink
	if orderType == models.OrderTypeSweets {
		category = models.MenuCategorySweet
	}

	var gross float64
	quantities := models.ItemQuantities{}
	for itemID, qty := range items {
		if qty <= 0 {
			return 0, nil, errors.New("item quantities must be positive")
		}
		var item models.MenuItem
		err := config.DB.Where("id = ? AND department_id = ? AND category = ?",
			itemID, departmentID, category).First(&item).Error
		if err != nil {
			return 0, nil, fmt.Errorf("unknown menu item: %d", itemID)
		}
		gross += item.Price * float64(qty)
		quantities[itemID] = qty
	}
	return round2(gross), quantities, nil
}

// CancelOrderByEmployeeHandler lets an employee cancel their own order.
// DELETE /api/employee/{id}/orders/{order_id}
func CancelOrderByEmployeeHandler(c *gin.Context) {
	employeeID := c.Param("id")
	orderID := c.Param("order_id")

	var order models.Order
	if err := config.DB.Where("id = ? AND employee_id = ?", orderID, employeeID).
		First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var employee models.Employee
	if err := config.DB.First(&employee, order.EmployeeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	cancelOrder(c, &order, &employee, "employee", employee.Name)
}

// CancelOrderByAdminHandler cancels any order of the session department.
// DELETE /api/department-admin/orders/{id}
func CancelOrderByAdminHandler(c *gin.Context) {
	orderID := c.Param("id")
	departmentID := sessionDepartmentID(c)

	var order models.Order
	if err := config.DB.Where("id = ? AND department_id = ?", orderID, departmentID).
		First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var employee models.Employee
	if err := config.DB.First(&employee, order.EmployeeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	name, _ := c.Get("department_name")
	adminName, _ := name.(string)
	cancelOrder(c, &order, &employee, "admin", adminName)
}

// cancelOrder reverses the original posting exactly once. Orders that already
// had a component sponsored cannot be cancelled anymore; the transfer would
// not be reversible without clawing money back from the sponsor.
func cancelOrder(c *gin.Context, order *models.Order, employee *models.Employee, by, byName string) {
	if order.IsCancelled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order is already cancelled"})
		return
	}
	if order.IsSponsored || strings.TrimSpace(order.SponsoredMealType) != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Sponsored orders cannot be cancelled"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		order.IsCancelled = true
		order.CancelledAt = &now
		order.CancelledBy = by
		order.CancelledByName = byName
		if err := tx.Save(order).Error; err != nil {
			return err
		}

		account := models.AccountBreakfast
		refund := order.TotalPrice
		if order.OrderType != models.OrderTypeBreakfast {
			account = models.AccountDrinksSweets
			refund = -order.TotalPrice
		}
		return postToAccount(tx, employee, order.DepartmentID, account, refund,
			models.TxReasonOrderCancelled, &order.ID)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		return
	}

	invalidateSummaryCache(order.DepartmentID, order.OrderDate)
	OrderFeed.Publish(order.DepartmentID, OrderEvent{Type: "order_cancelled", Order: order})

	c.JSON(http.StatusOK, order)
}
