package handlers

import (
	"errors"
	"net/http"

	"github.com/creativeyMedia/Fwkantine-sub001/config"
	"github.com/creativeyMedia/Fwkantine-sub001/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LunchSettingsInput sets the lunch price of the session department for one
// date.
type LunchSettingsInput struct {
	Date  string  `json:"date" binding:"required"`
	Price float64 `json:"price"`
}

// GetLunchSettingsHandler returns the lunch price for a date, 404 when none
// was set yet.
func GetLunchSettingsHandler(c *gin.Context) {
	departmentID := sessionDepartmentID(c)

	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}
	date, err := parseDate(dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	var setting models.LunchSetting
	if err := config.DB.Where("department_id = ? AND date = ?", departmentID, date).
		First(&setting).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No lunch price set for this date"})
		return
	}
	c.JSON(http.StatusOK, setting)
}

// UpdateLunchSettingsHandler upserts the lunch price for a date and
// retroactively reprices every non-cancelled lunch order of that day. The
// repricing is driven by the per-order cost snapshot, so running the same
// update twice is a no-op: each order is only moved by the difference between
// its stored lunch cost and the new price. Orders whose lunch is already
// sponsored charge the difference to the sponsor, who is the payer of record
// for that component.
func UpdateLunchSettingsHandler(c *gin.Context) {
	var input LunchSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if input.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
		return
	}

	date, err := parseDate(input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	departmentID := sessionDepartmentID(c)
	newPrice := round2(input.Price)

	var setting models.LunchSetting
	var repricedOrders int

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("department_id = ? AND date = ?", departmentID, date).
			First(&setting).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			setting = models.LunchSetting{DepartmentID: departmentID, Date: date, Price: newPrice}
			if err := tx.Create(&setting).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			setting.Price = newPrice
			if err := tx.Save(&setting).Error; err != nil {
				return err
			}
		}

		var sponsorID *uint
		var lunchSponsor models.SponsorEvent
		err = tx.Where("department_id = ? AND date = ? AND meal_type = ?",
			departmentID, date, models.MealTypeLunch).First(&lunchSponsor).Error
		if err == nil {
			sponsorID = &lunchSponsor.SponsorEmployeeID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var orders []models.Order
		if err := tx.Where("department_id = ? AND order_date = ? AND order_type = ? AND is_cancelled = ?",
			departmentID, date, models.OrderTypeBreakfast, false).Find(&orders).Error; err != nil {
			return err
		}

		for i := range orders {
			order := &orders[i]
			if !order.Breakfast.HasLunch {
				continue
			}
			delta := round2(newPrice - order.Breakfast.LunchCost)
			if delta == 0 {
				continue
			}

			order.Breakfast.LunchCost = newPrice
			order.TotalPrice = round2(order.TotalPrice + delta)
			if err := tx.Save(order).Error; err != nil {
				return err
			}

			payerID := order.EmployeeID
			if order.SponsoredFor(models.MealTypeLunch) && sponsorID != nil {
				payerID = *sponsorID
			}
			var payer models.Employee
			if err := tx.First(&payer, payerID).Error; err != nil {
				return err
			}
			if err := postToAccount(tx, &payer, order.DepartmentID, models.AccountBreakfast,
				-delta, models.TxReasonLunchReprice, &order.ID); err != nil {
				return err
			}
			repricedOrders++
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lunch settings"})
		return
	}

	invalidateSummaryCache(departmentID, date)

	c.JSON(http.StatusOK, gin.H{
		"lunch_setting":   setting,
		"repriced_orders": repricedOrders,
	})
}
