package models

import "gorm.io/gorm"

const (
	AccountBreakfast    = "breakfast"
	AccountDrinksSweets = "drinks_sweets"
)

const (
	TxReasonOrder          = "order"
	TxReasonOrderCancelled = "order_cancelled"
	TxReasonSponsorCredit  = "sponsor_credit"
	TxReasonSponsorDebit   = "sponsor_debit"
	TxReasonLunchReprice   = "lunch_reprice"
)

// BalanceTransaction records one posting against an employee account. Every
// balance mutation in the system writes exactly one row here, so the sum of
// amounts per (employee, department, account) always equals the stored
// balance. Negative amounts increase debt.
type BalanceTransaction struct {
	gorm.Model
	EmployeeID   uint    `json:"employee_id" gorm:"index;not null"`
	DepartmentID uint    `json:"department_id" gorm:"index;not null"`
	Account      string  `json:"account" gorm:"not null"`
	Amount       float64 `json:"amount" gorm:"type:numeric(12,2);not null"`
	Reason       string  `json:"reason" gorm:"not null"`
	OrderID      *uint   `json:"order_id,omitempty"`
}
