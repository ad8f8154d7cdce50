package handlers

import (
	"errors"

	"github.com/creativeyMedia/Fwkantine-sub001/models"

	"gorm.io/gorm"
)

// ErrNoSubAccount is returned when a guest tries to post to a department they
// were never assigned to.
var ErrNoSubAccount = errors.New("employee has no subaccount in this department")

// postToAccount applies a signed amount to the employee's account in the
// given department and writes the matching ledger row. The home department
// hits the main balance, any other department hits the subaccount opened by
// the guest assignment. Negative amounts increase debt.
func postToAccount(tx *gorm.DB, employee *models.Employee, departmentID uint, account string, amount float64, reason string, orderID *uint) error {
	amount = round2(amount)

	if departmentID == employee.DepartmentID {
		switch account {
		case models.AccountBreakfast:
			employee.BreakfastBalance = round2(employee.BreakfastBalance + amount)
		case models.AccountDrinksSweets:
			employee.DrinksSweetsBalance = round2(employee.DrinksSweetsBalance + amount)
		default:
			return errors.New("unknown account type: " + account)
		}
		if err := tx.Model(&models.Employee{}).Where("id = ?", employee.ID).
			Updates(map[string]interface{}{
				"breakfast_balance":     employee.BreakfastBalance,
				"drinks_sweets_balance": employee.DrinksSweetsBalance,
			}).Error; err != nil {
			return err
		}
	} else {
		var sub models.SubAccount
		if err := tx.Where("employee_id = ? AND department_id = ?", employee.ID, departmentID).
			First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoSubAccount
			}
			return err
		}
		switch account {
		case models.AccountBreakfast:
			sub.BreakfastBalance = round2(sub.BreakfastBalance + amount)
		case models.AccountDrinksSweets:
			sub.DrinksSweetsBalance = round2(sub.DrinksSweetsBalance + amount)
		default:
			return errors.New("unknown account type: " + account)
		}
		if err := tx.Model(&models.SubAccount{}).Where("id = ?", sub.ID).
			Updates(map[string]interface{}{
				"breakfast_balance":     sub.BreakfastBalance,
				"drinks_sweets_balance": sub.DrinksSweetsBalance,
			}).Error; err != nil {
			return err
		}
	}

	entry := models.BalanceTransaction{
		EmployeeID:   employee.ID,
		DepartmentID: departmentID,
		Account:      account,
		Amount:       amount,
		Reason:       reason,
		OrderID:      orderID,
	}
	return tx.Create(&entry).Error
}
