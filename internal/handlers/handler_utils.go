package handlers

import (
	"math"
	"time"

	"github.com/gin-gonic/gin"
)

// round2 rounds a money amount to cents. Every stored balance and price goes
// through this, so ledger sums stay exact at two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// parseDate parses the YYYY-MM-DD wire format into a UTC midnight timestamp.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// today returns the current date truncated to UTC midnight, the canonical
// form for OrderDate and LunchSetting.Date.
func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// sessionDepartmentID reads the department scope the auth middleware stored.
func sessionDepartmentID(c *gin.Context) uint {
	id, _ := c.Get("department_id")
	deptID, _ := id.(uint)
	return deptID
}
