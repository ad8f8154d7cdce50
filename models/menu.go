package models

import "gorm.io/gorm"

const (
	MenuCategoryTopping = "topping"
	MenuCategoryDrink   = "drink"
	MenuCategorySweet   = "sweet"
)

// MenuItem is a per-department priced catalog entry. Toppings are part of a
// breakfast order; drinks and sweets are ordered by quantity.
type MenuItem struct {
	gorm.Model
	DepartmentID uint    `json:"department_id" gorm:"index;not null"`
	Category     string  `json:"category" gorm:"not null"`
	Name         string  `json:"name" gorm:"not null"`
	Price        float64 `json:"price" gorm:"type:numeric(12,2)"`
}
