package domain

import (
	"errors"
	"math"
	"time"
)

// MachineStatus represents the operational state of a donation machine.
type MachineStatus string

const (
	StatusOperational MachineStatus = "operational"
	StatusMaintenance MachineStatus = "maintenance"
	StatusOffline     MachineStatus = "offline"
)

var ErrMachineNotFound = errors.New("machine not found")
var ErrMachineUnavailable = errors.New("machine not operational")
var ErrMachineFull = errors.New("machine storage is full")
var ErrInvalidStatus = errors.New("invalid machine status")
var ErrInvalidPosition = errors.New("invalid geographic position")
var ErrForbidden = errors.New("access forbidden")

// Valid reports whether s is one of the known machine statuses.
func (s MachineStatus) Valid() bool {
	switch s {
	case StatusOperational, StatusMaintenance, StatusOffline:
		return true
	}
	return false
}

// Position is a geographic point in decimal degrees (WGS 84).
type Position struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Validate rejects NaN and out-of-range coordinates.
func (p Position) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return ErrInvalidPosition
	}
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return ErrInvalidPosition
	}
	return nil
}

// Machine is a physical food donation/collection kiosk.
//
// AvailableCapacity is the free storage left, in units of one item out of
// MaxCapacity; AvailableFood is the number of stocked items. Neither is ever
// negative.
type Machine struct {
	ID                string        `json:"id" bson:"_id"`
	Name              string        `json:"name" bson:"name"`
	Address           string        `json:"address" bson:"address"`
	Location          Position      `json:"location" bson:"location"`
	AvailableCapacity int           `json:"available_capacity" bson:"available_capacity"`
	AvailableFood     int           `json:"available_food" bson:"available_food"`
	Status            MachineStatus `json:"status" bson:"status"`
	OperationalHours  string        `json:"operational_hours,omitempty" bson:"operational_hours,omitempty"`
	LastUpdated       time.Time     `json:"last_updated" bson:"last_updated"`
	CreatedAt         time.Time     `json:"created_at" bson:"created_at"`
}

// MaxCapacity is the storage of an empty machine.
const MaxCapacity = 100

// ClampCapacity bounds a reported capacity to 0-MaxCapacity.
func ClampCapacity(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxCapacity {
		return MaxCapacity
	}
	return v
}
