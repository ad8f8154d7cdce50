package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/creativeyMedia/Fwkantine-sub001/config"
	"github.com/creativeyMedia/Fwkantine-sub001/models"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
)

// ShoppingList aggregates the raw ingredient quantities needed for a date.
// It counts everything that was ordered and not cancelled, sponsored or not:
// sponsoring moves money, not food.
type ShoppingList struct {
	TotalHalves  int `json:"total_halves"`
	WhiteHalves  int `json:"white_halves"`
	SeededHalves int `json:"seeded_halves"`
	BoiledEggs   int `json:"boiled_eggs"`
	FriedEggs    int `json:"fried_eggs"`
	Coffees      int `json:"coffees"`
	Lunches      int `json:"lunches"`
}

// EmployeeDaySummary is one employee's payment line for the day.
type EmployeeDaySummary struct {
	EmployeeID        uint    `json:"employee_id"`
	Name              string  `json:"name"`
	TotalPrice        float64 `json:"total_price"`
	RemainingCost     float64 `json:"remaining_cost"`
	SponsoredMealType string  `json:"sponsored_meal_type,omitempty"`
	Orders            int     `json:"orders"`
}

// DailySummaryResponse is the payment ledger plus shopping list for one
// department and date.
type DailySummaryResponse struct {
	Date           string               `json:"date"`
	DepartmentID   uint                 `json:"department_id"`
	EmployeeOrders []EmployeeDaySummary `json:"employee_orders"`
	ShoppingList   ShoppingList         `json:"shopping_list"`
	TotalAmount    float64              `json:"total_amount"`
}

const summaryCacheTTL = 5 * time.Minute

func summaryCacheKey(departmentID uint, date time.Time) string {
	return fmt.Sprintf("summary:%d:%s", departmentID, date.Format("2006-01-02"))
}

// invalidateSummaryCache drops the cached daily summary after any write that
// touches orders or balances of that day.
func invalidateSummaryCache(departmentID uint, date time.Time) {
	if config.RDB == nil {
		return
	}
	if err := config.RDB.Del(config.Ctx, summaryCacheKey(departmentID, date)).Err(); err != nil {
		slog.Error("failed to invalidate summary cache", "error", err, "department_id", departmentID)
	}
}

// DailySummaryHandler serves GET /api/orders/daily-summary/{dept}?date=.
func DailySummaryHandler(c *gin.Context) {
	departmentID, err := strconv.ParseUint(c.Param("dept"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department id"})
		return
	}

	date := today()
	if dateStr := c.Query("date"); dateStr != "" {
		date, err = parseDate(dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
			return
		}
	}

	cacheKey := summaryCacheKey(uint(departmentID), date)
	if config.RDB != nil {
		cached, err := config.RDB.Get(config.Ctx, cacheKey).Result()
		if err == nil {
			var response DailySummaryResponse
			if json.Unmarshal([]byte(cached), &response) == nil {
				c.JSON(http.StatusOK, response)
				return
			}
		} else if err != redis.Nil {
			slog.Error("redis GET failed", "error", err, "key", cacheKey)
		}
	}

	response, err := buildDailySummary(uint(departmentID), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build daily summary"})
		return
	}

	if config.RDB != nil {
		if jsonData, err := json.Marshal(response); err == nil {
			if err := config.RDB.Set(config.Ctx, cacheKey, jsonData, summaryCacheTTL).Err(); err != nil {
				slog.Error("failed to cache summary", "error", err, "key", cacheKey)
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

func buildDailySummary(departmentID uint, date time.Time) (*DailySummaryResponse, error) {
	var orders []models.Order
	if err := config.DB.Preload("Employee").
		Where("department_id = ? AND order_date = ? AND is_cancelled = ?", departmentID, date, false).
		Order("id asc").Find(&orders).Error; err != nil {
		return nil, err
	}

	response := DailySummaryResponse{
		Date:           date.Format("2006-01-02"),
		DepartmentID:   departmentID,
		EmployeeOrders: []EmployeeDaySummary{},
	}

	perEmployee := map[uint]*EmployeeDaySummary{}
	var employeeOrder []uint

	for i := range orders {
		order := &orders[i]

		entry, ok := perEmployee[order.EmployeeID]
		if !ok {
			entry = &EmployeeDaySummary{
				EmployeeID: order.EmployeeID,
				Name:       order.Employee.Name,
			}
			perEmployee[order.EmployeeID] = entry
			employeeOrder = append(employeeOrder, order.EmployeeID)
		}
		entry.Orders++
		entry.TotalPrice = round2(entry.TotalPrice + order.TotalPrice)
		entry.RemainingCost = round2(entry.RemainingCost + remainingCost(order))
		if order.SponsoredMealType != "" {
			entry.SponsoredMealType = order.SponsoredMealType
		}

		if order.OrderType == models.OrderTypeBreakfast {
			b := order.Breakfast
			response.ShoppingList.TotalHalves += b.TotalHalves
			response.ShoppingList.WhiteHalves += b.WhiteHalves
			response.ShoppingList.SeededHalves += b.SeededHalves
			response.ShoppingList.BoiledEggs += b.BoiledEggs
			response.ShoppingList.FriedEggs += b.FriedEggs
			if b.HasCoffee {
				response.ShoppingList.Coffees++
			}
			if b.HasLunch {
				response.ShoppingList.Lunches++
			}
		}
		response.TotalAmount = round2(response.TotalAmount + order.TotalPrice)
	}

	for _, id := range employeeOrder {
		response.EmployeeOrders = append(response.EmployeeOrders, *perEmployee[id])
	}
	return &response, nil
}

// remainingCost is what the employee still pays themselves after sponsoring:
// the order total minus every sponsored component. For the classic scenario
// (breakfast and lunch both sponsored) only the coffee remains.
func remainingCost(order *models.Order) float64 {
	remaining := order.TotalPrice
	if order.SponsoredFor(models.MealTypeBreakfast) {
		remaining -= order.Breakfast.RollsCost + order.Breakfast.EggsCost
	}
	if order.SponsoredFor(models.MealTypeLunch) {
		remaining -= order.Breakfast.LunchCost
	}
	return round2(remaining)
}

// BreakfastHistoryHandler serves GET /api/orders/breakfast-history/{dept},
// a per-date aggregation over the last ?days= days (default 30).
func BreakfastHistoryHandler(c *gin.Context) {
	departmentID, err := strconv.ParseUint(c.Param("dept"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department id"})
		return
	}

	days := 30
	if d := c.Query("days"); d != "" {
		if parsed, err := strconv.Atoi(d); err == nil && parsed > 0 {
			days = parsed
		}
	}
	since := today().AddDate(0, 0, -days)

	var orders []models.Order
	if err := config.DB.
		Where("department_id = ? AND order_date >= ? AND order_type = ? AND is_cancelled = ?",
			departmentID, since, models.OrderTypeBreakfast, false).
		Order("order_date desc, id asc").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load breakfast history"})
		return
	}

	type historyEntry struct {
		Date         string       `json:"date"`
		TotalOrders  int          `json:"total_orders"`
		TotalAmount  float64      `json:"total_amount"`
		ShoppingList ShoppingList `json:"shopping_list"`
	}

	perDate := map[string]*historyEntry{}
	var dateOrder []string
	for i := range orders {
		order := &orders[i]
		key := order.OrderDate.Format("2006-01-02")
		entry, ok := perDate[key]
		if !ok {
			entry = &historyEntry{Date: key}
			perDate[key] = entry
			dateOrder = append(dateOrder, key)
		}
		entry.TotalOrders++
		entry.TotalAmount = round2(entry.TotalAmount + order.TotalPrice)
		b := order.Breakfast
		entry.ShoppingList.TotalHalves += b.TotalHalves
		entry.ShoppingList.WhiteHalves += b.WhiteHalves
		entry.ShoppingList.SeededHalves += b.SeededHalves
		entry.ShoppingList.BoiledEggs += b.BoiledEggs
		entry.ShoppingList.FriedEggs += b.FriedEggs
		if b.HasCoffee {
			entry.ShoppingList.Coffees++
		}
		if b.HasLunch {
			entry.ShoppingList.Lunches++
		}
	}

	history := []historyEntry{}
	for _, key := range dateOrder {
		history = append(history, *perDate[key])
	}
	c.JSON(http.StatusOK, gin.H{"data": history})
}

// ExportDailySummaryHandler streams the shopping list and payment lines of a
// day as an XLSX workbook.
func ExportDailySummaryHandler(c *gin.Context) {
	departmentID, err := strconv.ParseUint(c.Param("dept"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department id"})
		return
	}

	date := today()
	if dateStr := c.Query("date"); dateStr != "" {
		date, err = parseDate(dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
			return
		}
	}

	summary, err := buildDailySummary(uint(departmentID), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build daily summary"})
		return
	}

	f := excelize.NewFile()
	sheetName := "Einkaufsliste"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	shoppingHeaders := []string{"Brötchenhälften gesamt", "Hell", "Körner", "Gekochte Eier", "Spiegeleier", "Kaffee", "Mittagessen"}
	for i, header := range shoppingHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	sl := summary.ShoppingList
	shoppingValues := []int{sl.TotalHalves, sl.WhiteHalves, sl.SeededHalves, sl.BoiledEggs, sl.FriedEggs, sl.Coffees, sl.Lunches}
	for i, value := range shoppingValues {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheetName, cell, value)
	}

	paymentHeaders := []string{"Mitarbeiter", "Bestellwert", "Zu zahlen", "Gesponsert"}
	for i, header := range paymentHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		f.SetCellValue(sheetName, cell, header)
	}
	for i, entry := range summary.EmployeeOrders {
		row := i + 5
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), entry.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), entry.TotalPrice)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), entry.RemainingCost)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), entry.SponsoredMealType)
	}

	fileName := fmt.Sprintf("einkaufsliste_%s.xlsx", date.Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
	}
}
