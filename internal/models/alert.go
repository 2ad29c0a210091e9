package models

// AlertType identifies what raised an alert
type AlertType string

const (
	AlertTypeFatigue     AlertType = "fatigue"
	AlertTypeJobAssigned AlertType = "job_assigned"
)

// Alert is an entry in the dashboard alert feed
type Alert struct {
	ID            string       `json:"id"`
	Type          AlertType    `json:"type"`
	DriverLicense string       `json:"driver_license,omitempty"`
	DriverName    string       `json:"driver_name,omitempty"`
	VehicleID     string       `json:"vehicle_id,omitempty"`
	Level         FatigueLevel `json:"level,omitempty"`
	Message       string       `json:"message"`
	CreatedAt     int64        `json:"created_at"`
}
