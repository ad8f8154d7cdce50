package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/creativeyMedia/Fwkantine-sub001/config"
	"github.com/creativeyMedia/Fwkantine-sub001/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sponsorMeal(r *gin.Engine, token, mealType string, sponsorID uint) *httpResult {
	w := doJSON(r, http.MethodPost, "/api/department-admin/sponsor-meal", token, gin.H{
		"date":                testDate,
		"meal_type":           mealType,
		"sponsor_employee_id": sponsorID,
	})
	return &httpResult{w.Code, w.Body.String()}
}

type httpResult struct {
	Code int
	Body string
}

// The scenario from the ledger-conservation hunts: one employee orders the
// full breakfast (rolls, eggs, coffee, lunch), one sponsor takes over
// breakfast, another takes over lunch. What remains on the employee is
// exactly the coffee.
func TestSponsoringLeavesOnlyCoffee(t *testing.T) {
	r := setupRouter(t)
	department := seedDepartment(t, "1. Wachabteilung")
	diner := seedEmployee(t, department.ID, "Müller")
	sponsorA := seedEmployee(t, department.ID, "Schmidt")
	sponsorB := seedEmployee(t, department.ID, "Weber")

	employeeToken := employeeLogin(t, r, "1. Wachabteilung")
	adminToken := adminLogin(t, r, "1. Wachabteilung")

	placeBreakfast(t, r, employeeToken, diner.ID, fullBreakfast()) // 9.70
	placeBreakfast(t, r, employeeToken, sponsorA.ID, gin.H{"total_halves": 2, "white_halves": 2}) // 1.00
	placeBreakfast(t, r, employeeToken, sponsorB.ID, gin.H{"total_halves": 2, "white_halves": 2}) // 1.00

	res := sponsorMeal(r, adminToken, "breakfast", sponsorA.ID)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	res = sponsorMeal(r, adminToken, "lunch", sponsorB.ID)
	require.Equal(t, http.StatusOK, res.Code, res.Body)

	// Diner keeps only the coffee (1.50).
	assert.InDelta(t, -1.50, reloadEmployee(t, diner.ID).BreakfastBalance, 0.001)
	// Sponsor A pays their own roll plus 3.20 (diner) + 1.00 (sponsor B).
	assert.InDelta(t, -5.20, reloadEmployee(t, sponsorA.ID).BreakfastBalance, 0.001)
	// Sponsor B pays their own roll, got it sponsored back, and carries the lunch.
	assert.InDelta(t, -5.00, reloadEmployee(t, sponsorB.ID).BreakfastBalance, 0.001)

	var order models.Order
	require.NoError(t, config.DB.Where("employee_id = ?", diner.ID).First(&order).Error)
	assert.Equal(t, "breakfast,lunch", order.SponsoredMealType)
	assert.True(t, order.IsSponsored)
}

func TestSponsoringConservesMoney(t *testing.T) {
	r := setupRouter(t)
	department := seedDepartment(t, "1. Wachabteilung")
	employees := []*models.Employee{
		seedEmployee(t, department.ID, "Müller"),
		seedEmployee(t, department.ID, "Schmidt"),
		seedEmployee(t, department.ID, "Weber"),
		seedEmployee(t, department.ID, "Fischer"),
	}

	employeeToken := employeeLogin(t, r, "1. Wachabteilung")
	adminToken := adminLogin(t, r, "1. Wachabteilung")

	var totalOrdered float64
	for _, employee := range employees {
		order := placeBreakfast(t, r, employeeToken, employee.ID, fullBreakfast())
		totalOrdered += order["total_price"].(float64)
	}

	balanceSum := func() float64 {
		var sum float64
		for _, employee := range employees {
			sum += reloadEmployee(t, employee.ID).BreakfastBalance
		}
		return sum
	}

	require.InDelta(t, -totalOrdered, balanceSum(), 0.001)

	res := sponsorMeal(r, adminToken, "breakfast", employees[0].ID)
	require.Equal(t, http.StatusOK, res.Code, res.Body)

	// Sponsoring moves money around but never creates or destroys any.
	assert.InDelta(t, -totalOrdered, balanceSum(), 0.001)

	var event models.SponsorEvent
	require.NoError(t, config.DB.Where("meal_type = ?", "breakfast").First(&event).Error)
	assert.Equal(t, 3, event.AffectedEmployees)
	assert.InDelta(t, 3*3.20, event.TotalCost, 0.001)
	assert.InDelta(t, event.TotalCost, event.SponsorAdditionalCost, 0.001)

	// The ledger rows must balance too: credits equal the sponsor debit.
	var credits, debits float64
	config.DB.Model(&models.BalanceTransaction{}).
		Where("reason = ?", models.TxReasonSponsorCredit).
		Select("COALESCE(SUM(amount), 0)").Scan(&credits)
	config.DB.Model(&models.BalanceTransaction{}).
		Where("reason = ?", models.TxReasonSponsorDebit).
		Select("COALESCE(SUM(amount), 0)").Scan(&debits)
	assert.InDelta(t, 0, credits+debits, 0.001)
}

func TestSponsoringTwiceIsRejected(t *testing.T) {
	r := setupRouter(t)
	department := seedDepartment(t, "1. Wachabteilung")
	diner := seedEmployee(t, department.ID, "Müller")
	sponsor := seedEmployee(t, department.ID, "Schmidt")

	employeeToken := employeeLogin(t, r, "1. Wachabteilung")
	adminToken := adminLogin(t, r, "1. Wachabteilung")

	placeBreakfast(t, r, employeeToken, diner.ID, fullBreakfast())
	placeBreakfast(t, r, employeeToken, sponsor.ID, gin.H{"total_halves": 2, "white_halves": 2})

	res := sponsorMeal(r, adminToken, "breakfast", sponsor.ID)
	require.Equal(t, http.StatusOK, res.Code, res.Body)

	before := reloadEmployee(t, diner.ID).BreakfastBalance

	res = sponsorMeal(r, adminToken, "breakfast", sponsor.ID)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body, "bereits gesponsert")

	// No double credit.
	assert.InDelta(t, before, reloadEmployee(t, diner.ID).BreakfastBalance, 0.001)
}

func TestSponsoringValidation(t *testing.T) {
	r := setupRouter(t)
	department := seedDepartment(t, "1. Wachabteilung")
	diner := seedEmployee(t, department.ID, "Müller")
	idle := seedEmployee(t, department.ID, "Schmidt")

	employeeToken := employeeLogin(t, r, "1. Wachabteilung")
	adminToken := adminLogin(t, r, "1. Wachabteilung")

	placeBreakfast(t, r, employeeToken, diner.ID, fullBreakfast())

	t.Run("unknown meal type", func(t *testing.T) {
		res := sponsorMeal(r, adminToken, "dinner", diner.ID)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("unknown sponsor", func(t *testing.T) {
		res := sponsorMeal(r, adminToken, "breakfast", 9999)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("sponsor without own order", func(t *testing.T) {
		res := sponsorMeal(r, adminToken, "breakfast", idle.ID)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestSponsoredOrderCannotBeCancelled(t *testing.T) {
	r := setupRouter(t)
	department := seedDepartment(t, "1. Wachabteilung")
	diner := seedEmployee(t, department.ID, "Müller")
	sponsor := seedEmployee(t, department.ID, "Schmidt")

	employeeToken := employeeLogin(t, r, "1. Wachabteilung")
	adminToken := adminLogin(t, r, "1. Wachabteilung")

	order := placeBreakfast(t, r, employeeToken, diner.ID, fullBreakfast())
	placeBreakfast(t, r, employeeToken, sponsor.ID, gin.H{"total_halves": 2, "white_halves": 2})

	res := sponsorMeal(r, adminToken, "breakfast", sponsor.ID)
	require.Equal(t, http.StatusOK, res.Code, res.Body)

	orderID := uint(order["ID"].(float64))
	w := doJSON(r, http.MethodDelete,
		"/api/employee/"+itoa(diner.ID)+"/orders/"+itoa(orderID), employeeToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSponsorEventResponseShape(t *testing.T) {
	r := setupRouter(t)
	department := seedDepartment(t, "1. Wachabteilung")
	diner := seedEmployee(t, department.ID, "Müller")
	sponsor := seedEmployee(t, department.ID, "Schmidt")

	employeeToken := employeeLogin(t, r, "1. Wachabteilung")
	adminToken := adminLogin(t, r, "1. Wachabteilung")

	placeBreakfast(t, r, employeeToken, diner.ID, fullBreakfast())
	placeBreakfast(t, r, employeeToken, sponsor.ID, gin.H{"total_halves": 2, "white_halves": 2})

	w := doJSON(r, http.MethodPost, "/api/department-admin/sponsor-meal", adminToken, gin.H{
		"date":                testDate,
		"meal_type":           "lunch",
		"sponsor_employee_id": sponsor.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(w.Body.String()), &event))
	assert.Equal(t, "lunch", event["meal_type"])
	assert.InDelta(t, 5.00, event["total_cost"], 0.001)
	assert.InDelta(t, float64(1), event["affected_employees"], 0.001)
}
