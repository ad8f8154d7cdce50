package models

import (
	"time"

	"gorm.io/gorm"
)

// SponsorEvent records one sponsoring: the sponsor took over one meal
// component (breakfast or lunch) for every other employee who ordered it on
// the given date. TotalCost equals the sum of the credits handed out, so the
// ledger stays balanced.
type SponsorEvent struct {
	gorm.Model
	DepartmentID      uint      `json:"department_id" gorm:"index;not null"`
	Date              time.Time `json:"date" gorm:"index;not null"`
	MealType          string    `json:"meal_type" gorm:"not null"`
	SponsorEmployeeID uint      `json:"sponsor_employee_id" gorm:"not null"`

	TotalCost             float64 `json:"total_cost" gorm:"type:numeric(12,2)"`
	AffectedEmployees     int     `json:"affected_employees"`
	SponsorAdditionalCost float64 `json:"sponsor_additional_cost" gorm:"type:numeric(12,2)"`
}
