package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	OrderTypeBreakfast = "breakfast"
	OrderTypeDrinks    = "drinks"
	OrderTypeSweets    = "sweets"
)

const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
)

// BreakfastDetail holds the composition of a breakfast order plus a cost
// snapshot taken at order time. Sponsoring and retroactive lunch repricing
// work off the snapshot, not off current department prices.
type BreakfastDetail struct {
	TotalHalves  int      `json:"total_halves"`
	WhiteHalves  int      `json:"white_halves"`
	SeededHalves int      `json:"seeded_halves"`
	Toppings     []string `json:"toppings"`
	BoiledEggs   int      `json:"boiled_eggs"`
	FriedEggs    int      `json:"fried_eggs"`
	HasCoffee    bool     `json:"has_coffee"`
	HasLunch     bool     `json:"has_lunch"`

	RollsCost  float64 `json:"rolls_cost"`
	EggsCost   float64 `json:"eggs_cost"`
	CoffeeCost float64 `json:"coffee_cost"`
	LunchCost  float64 `json:"lunch_cost"`
}

// Value serializes the breakfast detail to JSON for the JSONB column.
func (b BreakfastDetail) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan reads the JSONB column back. Postgres hands over []byte, SQLite may
// hand over string.
func (b *BreakfastDetail) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	case nil:
		return nil
	}
	return errors.New("unsupported type for BreakfastDetail")
}

// ItemQuantities maps menu item IDs to ordered quantities for drinks and
// sweets orders.
type ItemQuantities map[uint]int

func (q ItemQuantities) Value() (driver.Value, error) {
	return json.Marshal(q)
}

func (q *ItemQuantities) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, q)
	case string:
		return json.Unmarshal([]byte(v), q)
	case nil:
		return nil
	}
	return errors.New("unsupported type for ItemQuantities")
}

// Order is a single purchase event. DepartmentID is the department the order
// was placed in, which differs from the employee's home department for
// guests. TotalPrice is positive for breakfast and negative for drinks and
// sweets. Cancelling is a soft operation: the row stays, aggregates skip it.
type Order struct {
	gorm.Model
	EmployeeID   uint     `json:"employee_id" gorm:"index;not null"`
	Employee     Employee `json:"-" gorm:"foreignKey:EmployeeID"`
	DepartmentID uint     `json:"department_id" gorm:"index;not null"`

	OrderType string    `json:"order_type" gorm:"not null"`
	OrderDate time.Time `json:"order_date" gorm:"index;not null"`

	Breakfast BreakfastDetail `json:"breakfast_items" gorm:"type:jsonb"`
	Items     ItemQuantities  `json:"items" gorm:"type:jsonb"`

	TotalPrice float64 `json:"total_price" gorm:"type:numeric(12,2)"`

	IsCancelled     bool       `json:"is_cancelled"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy     string     `json:"cancelled_by,omitempty"`
	CancelledByName string     `json:"cancelled_by_name,omitempty"`

	IsSponsored       bool   `json:"is_sponsored"`
	SponsoredMealType string `json:"sponsored_meal_type,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// SponsoredFor reports whether the given meal component of this order has
// already been taken over by a sponsor.
func (o *Order) SponsoredFor(mealType string) bool {
	if o.SponsoredMealType == "" {
		return false
	}
	for _, t := range strings.Split(o.SponsoredMealType, ",") {
		if t == mealType {
			return true
		}
	}
	return false
}
