package models

import "time"

// DutyStatus is derived from a driver's duty start timestamp
type DutyStatus string

const (
	DutyStatusOnDuty  DutyStatus = "OnDuty"
	DutyStatusOffline DutyStatus = "Offline"
)

// FatigueLevel classifies elapsed duty time into severity buckets
type FatigueLevel string

const (
	FatigueNone     FatigueLevel = "" // Off duty
	FatigueLow      FatigueLevel = "LOW"
	FatigueMedium   FatigueLevel = "MEDIUM"
	FatigueHigh     FatigueLevel = "HIGH"
	FatigueCritical FatigueLevel = "CRITICAL"
)

// Rank orders fatigue levels, FatigueNone ranks lowest
func (l FatigueLevel) Rank() int {
	switch l {
	case FatigueLow:
		return 1
	case FatigueMedium:
		return 2
	case FatigueHigh:
		return 3
	case FatigueCritical:
		return 4
	default:
		return 0
	}
}

// DriverRecord represents a registered driver and their duty state
type DriverRecord struct {
	LicenseNumber               string     `json:"license_number"`
	Name                        string     `json:"name"`
	ContactNumber               string     `json:"contact_number"`
	LicenseExpiry               string     `json:"license_expiry"`
	InsuranceExpiry             string     `json:"insurance_expiry"`
	FitnessCertificateExpiry    string     `json:"fitness_certificate_expiry"`
	PermitExpiry                string     `json:"permit_expiry"`
	AllowedVehicleClasses       []string   `json:"allowed_vehicle_classes"`
	AssignedVehicleRegistration string     `json:"assigned_vehicle_registration"`
	DutyStart                   *time.Time `json:"duty_start"` // nil while off duty
}

// DutyStatus is OnDuty iff DutyStart is set
func (d DriverRecord) DutyStatus() DutyStatus {
	if d.DutyStart != nil {
		return DutyStatusOnDuty
	}
	return DutyStatusOffline
}

// Clone returns a deep copy so callers can't reach registry state
func (d DriverRecord) Clone() DriverRecord {
	c := d
	if d.AllowedVehicleClasses != nil {
		c.AllowedVehicleClasses = append([]string(nil), d.AllowedVehicleClasses...)
	}
	if d.DutyStart != nil {
		t := *d.DutyStart
		c.DutyStart = &t
	}
	return c
}

// FatigueSummary counts on-duty drivers per fatigue level
type FatigueSummary struct {
	Low      int `json:"LOW"`
	Medium   int `json:"MEDIUM"`
	High     int `json:"HIGH"`
	Critical int `json:"CRITICAL"`
}

// Add increments the bucket for level, FatigueNone is ignored
func (s *FatigueSummary) Add(level FatigueLevel) {
	switch level {
	case FatigueLow:
		s.Low++
	case FatigueMedium:
		s.Medium++
	case FatigueHigh:
		s.High++
	case FatigueCritical:
		s.Critical++
	}
}

// Total returns the number of drivers counted
func (s FatigueSummary) Total() int {
	return s.Low + s.Medium + s.High + s.Critical
}
