package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gin-gonic/gin"
)

type shoppingList struct {
	TotalHalves  int `json:"total_halves"`
	WhiteHalves  int `json:"white_halves"`
	SeededHalves int `json:"seeded_halves"`
	BoiledEggs   int `json:"boiled_eggs"`
	FriedEggs    int `json:"fried_eggs"`
	Coffees      int `json:"coffees"`
	Lunches      int `json:"lunches"`
}

type dailySummary struct {
	Date           string `json:"date"`
	EmployeeOrders []struct {
		EmployeeID        uint    `json:"employee_id"`
		Name              string  `json:"name"`
		TotalPrice        float64 `json:"total_price"`
		RemainingCost     float64 `json:"remaining_cost"`
		SponsoredMealType string  `json:"sponsored_meal_type"`
	} `json:"employee_orders"`
	ShoppingList shoppingList `json:"shopping_list"`
	TotalAmount  float64      `json:"total_amount"`
}

func fetchSummary(t *testing.T, r *gin.Engine, token string, departmentID uint) dailySummary {
	t.Helper()
	w := doJSON(r, http.MethodGet,
		"/api/orders/daily-summary/"+itoa(departmentID)+"?date="+testDate, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var summary dailySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	return summary
}

func TestDailySummaryAggregation(t *testing.T) {
	r := setupRouter(t)
	department := seedDepartment(t, "1. Wachabteilung")
	first := seedEmployee(t, department.ID, "Müller")
	second := seedEmployee(t, department.ID, "Schmidt")

	token := employeeLogin(t, r, "1. Wachabteilung")

	placeBreakfast(t, r, token, first.ID, fullBreakfast()) // 4 halves, 2 eggs, coffee, lunch
	placeBreakfast(t, r, token, second.ID, gin.H{
		"total_halves": 3, "white_halves": 1, "seeded_halves": 2, "boiled_eggs": 2,
	})

	summary := fetchSummary(t, r, token, department.ID)
	assert.Equal(t, testDate, summary.Date)
	assert.Equal(t, 7, summary.ShoppingList.TotalHalves)
	assert.Equal(t, 3, summary.ShoppingList.WhiteHalves)
	assert.Equal(t, 4, summary.ShoppingList.SeededHalves)
	assert.Equal(t, 3, summary.ShoppingList.BoiledEggs)
	assert.Equal(t, 1, summary.ShoppingList.FriedEggs)
	assert.Equal(t, 1, summary.ShoppingList.Coffees)
	assert.Equal(t, 1, summary.ShoppingList.Lunches)
	require.Len(t, summary.EmployeeOrders, 2)
	// 9.70 + (0.50 + 1.20 + 1.00) = 12.40
	assert.InDelta(t, 12.40, summary.TotalAmount, 0.001)
}

func TestDailySummaryExcludesCancelledOrders(t *testing.T) {
	r := setupRouter(t)
	department := seedDepartment(t, "1. Wachabteilung")
	employee := seedEmployee(t, department.ID, "Müller")
	token := employeeLogin(t, r, "1. Wachabteilung")

	order := placeBreakfast(t, r, token, employee.ID, fullBreakfast())
	orderID := uint(order["ID"].(float64))

	w := doJSON(r, http.MethodDelete,
		"/api/employee/"+itoa(employee.ID)+"/orders/"+itoa(orderID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	summary := fetchSummary(t, r, token, department.ID)
	assert.Empty(t, summary.EmployeeOrders)
	assert.Equal(t, 0, summary.ShoppingList.TotalHalves)
	assert.InDelta(t, 0, summary.TotalAmount, 0.001)
}

// Sponsoring redistributes payment, not food: the shopping list must not
// change, only the remaining cost of the covered employees.
func TestSponsoringKeepsShoppingListStable(t *testing.T) {
	r := setupRouter(t)
	department := seedDepartment(t, "1. Wachabteilung")
	diner := seedEmployee(t, department.ID, "Müller")
	sponsor := seedEmployee(t, department.ID, "Schmidt")

	employeeToken := employeeLogin(t, r, "1. Wachabteilung")
	adminToken := adminLogin(t, r, "1. Wachabteilung")

	placeBreakfast(t, r, employeeToken, diner.ID, fullBreakfast())
	placeBreakfast(t, r, employeeToken, sponsor.ID, gin.H{"total_halves": 2, "white_halves": 2})

	before := fetchSummary(t, r, employeeToken, department.ID)

	res := sponsorMeal(r, adminToken, "breakfast", sponsor.ID)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	res = sponsorMeal(r, adminToken, "lunch", sponsor.ID)
	require.Equal(t, http.StatusOK, res.Code, res.Body)

	after := fetchSummary(t, r, employeeToken, department.ID)
	assert.Equal(t, before.ShoppingList, after.ShoppingList)
	assert.InDelta(t, before.TotalAmount, after.TotalAmount, 0.001)

	for _, entry := range after.EmployeeOrders {
		if entry.EmployeeID != diner.ID {
			continue
		}
		assert.InDelta(t, 9.70, entry.TotalPrice, 0.001)
		assert.InDelta(t, 1.50, entry.RemainingCost, 0.001)
		assert.Equal(t, "breakfast,lunch", entry.SponsoredMealType)
	}
}

func TestBreakfastHistory(t *testing.T) {
	r := setupRouter(t)
	department := seedDepartment(t, "1. Wachabteilung")
	employee := seedEmployee(t, department.ID, "Müller")
	token := employeeLogin(t, r, "1. Wachabteilung")

	placeBreakfast(t, r, token, employee.ID, fullBreakfast())

	w := doJSON(r, http.MethodGet,
		"/api/orders/breakfast-history/"+itoa(department.ID)+"?days=3650", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Data []struct {
			Date         string       `json:"date"`
			TotalOrders  int          `json:"total_orders"`
			TotalAmount  float64      `json:"total_amount"`
			ShoppingList shoppingList `json:"shopping_list"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data, 1)
	assert.Equal(t, testDate, response.Data[0].Date)
	assert.Equal(t, 1, response.Data[0].TotalOrders)
	assert.InDelta(t, 9.70, response.Data[0].TotalAmount, 0.001)
	assert.Equal(t, 4, response.Data[0].ShoppingList.TotalHalves)
}

func TestDailySummaryExport(t *testing.T) {
	r := setupRouter(t)
	department := seedDepartment(t, "1. Wachabteilung")
	employee := seedEmployee(t, department.ID, "Müller")
	token := employeeLogin(t, r, "1. Wachabteilung")

	placeBreakfast(t, r, token, employee.ID, fullBreakfast())

	w := doJSON(r, http.MethodGet,
		"/api/orders/daily-summary/"+itoa(department.ID)+"/export?date="+testDate, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))
	assert.NotZero(t, w.Body.Len())
}
