package models

import "gorm.io/gorm"

// Employee belongs to exactly one home department. The two main balances are
// signed: negative means the employee owes the canteen money. Orders placed as
// a guest in another department post to a SubAccount instead.
type Employee struct {
	gorm.Model
	Name         string     `json:"name" gorm:"not null"`
	DepartmentID uint       `json:"department_id" gorm:"index;not null"`
	Department   Department `json:"-" gorm:"foreignKey:DepartmentID"`

	BreakfastBalance    float64 `json:"breakfast_balance" gorm:"type:numeric(12,2)"`
	DrinksSweetsBalance float64 `json:"drinks_sweets_balance" gorm:"type:numeric(12,2)"`

	SubAccounts []SubAccount `json:"subaccounts,omitempty" gorm:"foreignKey:EmployeeID"`
}

// SubAccount is the balance ledger an employee carries inside a guest
// department. One row per (employee, department) pair.
type SubAccount struct {
	gorm.Model
	EmployeeID   uint `json:"employee_id" gorm:"index:idx_subaccount_pair,unique;not null"`
	DepartmentID uint `json:"department_id" gorm:"index:idx_subaccount_pair,unique;not null"`

	BreakfastBalance    float64 `json:"breakfast_balance" gorm:"type:numeric(12,2)"`
	DrinksSweetsBalance float64 `json:"drinks_sweets_balance" gorm:"type:numeric(12,2)"`

	// AccessCode is handed to the guest on assignment so the foreign
	// department can look them up at the counter.
	AccessCode string `json:"access_code"`
}
