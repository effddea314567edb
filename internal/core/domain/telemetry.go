package domain

import "time"

// TelemetryEvent is a status heartbeat reported by a machine.
type TelemetryEvent struct {
	MachineID         string        `json:"machine_id" bson:"machine_id"`
	AvailableCapacity int           `json:"available_capacity" bson:"available_capacity"`
	ErrorCode         string        `json:"error_code,omitempty" bson:"error_code,omitempty"`
	Status            MachineStatus `json:"status" bson:"status"`
	Timestamp         time.Time     `json:"timestamp" bson:"timestamp"`
}

// StatusFromErrorCode derives the status a reporting machine should have.
// A machine that reports in is reachable, so offline never results.
func StatusFromErrorCode(code string) MachineStatus {
	if code != "" {
		return StatusMaintenance
	}
	return StatusOperational
}
