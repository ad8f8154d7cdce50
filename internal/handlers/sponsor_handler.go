package handlers

import (
	"net/http"

	"github.com/creativeyMedia/Fwkantine-sub001/config"
	"github.com/creativeyMedia/Fwkantine-sub001/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SponsorMealInput names the day, the meal component and the employee whose
// account absorbs everyone else's cost for it.
type SponsorMealInput struct {
	Date              string `json:"date" binding:"required"`
	MealType          string `json:"meal_type" binding:"required"`
	SponsorEmployeeID uint   `json:"sponsor_employee_id" binding:"required"`
}

// SponsorMealHandler transfers the cost of one meal component (breakfast or
// lunch) for a whole day onto a single sponsor. Covered employees get their
// component cost credited back, the sponsor is debited the exact sum, so the
// ledger total stays unchanged. Orders themselves are never deleted or
// repriced: sponsoring changes who pays, not what was bought — the shopping
// list stays identical.
func SponsorMealHandler(c *gin.Context) {
	var input SponsorMealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if input.MealType != models.MealTypeBreakfast && input.MealType != models.MealTypeLunch {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown meal_type: " + input.MealType})
		return
	}

	date, err := parseDate(input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	departmentID := sessionDepartmentID(c)

	var existing int64
	config.DB.Model(&models.SponsorEvent{}).
		Where("department_id = ? AND date = ? AND meal_type = ?", departmentID, date, input.MealType).
		Count(&existing)
	if existing > 0 {
		// The German client UIs match on this exact phrase.
		c.JSON(http.StatusBadRequest, gin.H{"error": "Diese Mahlzeit wurde bereits gesponsert"})
		return
	}

	var sponsor models.Employee
	if err := config.DB.First(&sponsor, input.SponsorEmployeeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sponsor employee not found"})
		return
	}

	var orders []models.Order
	if err := config.DB.
		Where("department_id = ? AND order_date = ? AND order_type = ? AND is_cancelled = ?",
			departmentID, date, models.OrderTypeBreakfast, false).
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}

	sponsorOrdered := false
	for _, order := range orders {
		if order.EmployeeID == sponsor.ID {
			sponsorOrdered = true
			break
		}
	}
	if !sponsorOrdered {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Sponsor has no order on this date"})
		return
	}

	var event models.SponsorEvent
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var totalCost float64
		affected := map[uint]bool{}

		for i := range orders {
			order := &orders[i]
			if order.EmployeeID == sponsor.ID {
				continue // the sponsor keeps paying their own meal
			}
			if order.SponsoredFor(input.MealType) {
				continue
			}

			cost := sponsoredComponentCost(order, input.MealType)
			if cost <= 0 {
				continue
			}

			var employee models.Employee
			if err := tx.First(&employee, order.EmployeeID).Error; err != nil {
				return err
			}
			if err := postToAccount(tx, &employee, order.DepartmentID, models.AccountBreakfast,
				cost, models.TxReasonSponsorCredit, &order.ID); err != nil {
				return err
			}

			order.IsSponsored = true
			if order.SponsoredMealType == "" {
				order.SponsoredMealType = input.MealType
			} else {
				order.SponsoredMealType = order.SponsoredMealType + "," + input.MealType
			}
			if err := tx.Save(order).Error; err != nil {
				return err
			}

			totalCost = round2(totalCost + cost)
			affected[order.EmployeeID] = true
		}

		if err := postToAccount(tx, &sponsor, departmentID, models.AccountBreakfast,
			-totalCost, models.TxReasonSponsorDebit, nil); err != nil {
			return err
		}

		event = models.SponsorEvent{
			DepartmentID:          departmentID,
			Date:                  date,
			MealType:              input.MealType,
			SponsorEmployeeID:     sponsor.ID,
			TotalCost:             totalCost,
			AffectedEmployees:     len(affected),
			SponsorAdditionalCost: totalCost,
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sponsor meal"})
		return
	}

	invalidateSummaryCache(departmentID, date)
	OrderFeed.Publish(departmentID, OrderEvent{Type: "meal_sponsored"})

	c.JSON(http.StatusOK, event)
}

// sponsoredComponentCost returns the slice of an order's cost snapshot a
// sponsor takes over. Coffee is never sponsored.
func sponsoredComponentCost(order *models.Order, mealType string) float64 {
	switch mealType {
	case models.MealTypeBreakfast:
		return round2(order.Breakfast.RollsCost + order.Breakfast.EggsCost)
	case models.MealTypeLunch:
		if order.Breakfast.HasLunch {
			return order.Breakfast.LunchCost
		}
	}
	return 0
}
