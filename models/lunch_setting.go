package models

import (
	"time"

	"gorm.io/gorm"
)

// LunchSetting is the date-scoped lunch price of a department. Changing an
// existing row retroactively reprices that day's lunch orders.
type LunchSetting struct {
	gorm.Model
	DepartmentID uint      `json:"department_id" gorm:"index:idx_lunch_dept_date,unique;not null"`
	Date         time.Time `json:"date" gorm:"index:idx_lunch_dept_date,unique;not null"`
	Price        float64   `json:"price" gorm:"type:numeric(12,2);not null"`
}
