package domain

import (
	"errors"
	"time"
)

// MaxCollectPerVisit caps how many items a single receiver may take.
const MaxCollectPerVisit = 2

var ErrExpiredFood = errors.New("cannot donate expired food")
var ErrNoFoodAvailable = errors.New("no suitable food available for dispensing")
var ErrFoodItemNotFound = errors.New("food item not found")
var ErrFoodItemClosed = errors.New("food item already dispensed or removed")
var ErrInvalidQuantity = errors.New("invalid quantity")

// FoodItem is one stocked unit inside a machine.
type FoodItem struct {
	ID          string     `json:"id" bson:"_id"`
	MachineID   string     `json:"machine_id" bson:"machine_id"`
	ExpiryDate  time.Time  `json:"expiry_date" bson:"expiry_date"`
	DonatedAt   time.Time  `json:"donated_at" bson:"donated_at"`
	Dispensed   bool       `json:"dispensed" bson:"dispensed"`
	DispensedAt *time.Time `json:"dispensed_at,omitempty" bson:"dispensed_at,omitempty"`
	Removed     bool       `json:"removed" bson:"removed"`
	RemovedAt   *time.Time `json:"removed_at,omitempty" bson:"removed_at,omitempty"`
	RemovedBy   string     `json:"removed_by,omitempty" bson:"removed_by,omitempty"`
}

// Stocked reports whether the item is still physically in the machine.
func (f FoodItem) Stocked() bool {
	return !f.Dispensed && !f.Removed
}

// ExpiredOn reports whether the item is past its expiry date on day.
// Dates are compared at day granularity in UTC.
func (f FoodItem) ExpiredOn(day time.Time) bool {
	return f.ExpiryDate.Before(TruncateDay(day))
}

// TruncateDay returns midnight UTC of t's calendar day.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ExpiredStock summarises expired items awaiting volunteer removal at a machine.
type ExpiredStock struct {
	MachineID string `json:"machine_id" bson:"_id"`
	Address   string `json:"address" bson:"address"`
	Count     int    `json:"expired_item_count" bson:"count"`
}

// DashboardStats are the network-wide counts shown to admins.
type DashboardStats struct {
	TotalMachines       int64 `json:"total_machines"`
	OperationalMachines int64 `json:"operational_machines"`
	StockedFoodItems    int64 `json:"stocked_food_items"`
	ExpiredFoodItems    int64 `json:"expired_food_items"`
	DispensedFoodItems  int64 `json:"dispensed_food_items"`
	Volunteers          int64 `json:"volunteers"`
}
