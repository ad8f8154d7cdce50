package models

import "gorm.io/gorm"

// Department is the tenant unit of the canteen. Every department runs its own
// price list, menu and the two shared login passwords (employee and admin),
// which are stored bcrypt-hashed and never serialized.
type Department struct {
	gorm.Model
	Name             string `json:"name" gorm:"uniqueIndex;not null"`
	EmployeePassword string `json:"-"`
	AdminPassword    string `json:"-"`

	// Breakfast unit prices. Toppings, drinks and sweets live in MenuItems.
	WhiteRollPrice  float64 `json:"white_roll_price" gorm:"type:numeric(12,2)"`
	SeededRollPrice float64 `json:"seeded_roll_price" gorm:"type:numeric(12,2)"`
	BoiledEggPrice  float64 `json:"boiled_egg_price" gorm:"type:numeric(12,2)"`
	FriedEggPrice   float64 `json:"fried_egg_price" gorm:"type:numeric(12,2)"`
	CoffeePrice     float64 `json:"coffee_price" gorm:"type:numeric(12,2)"`

	MenuItems []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:DepartmentID"`
}
