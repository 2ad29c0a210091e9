package helpers

import (
	"fmt"
	"time"

	"fleetdash-backend/internal/models"
)

// Fatigue thresholds, each upper bound is inclusive
const (
	LowFatigueLimit    = 6 * time.Hour
	MediumFatigueLimit = 8 * time.Hour
	HighFatigueLimit   = 12 * time.Hour
)

// FatigueLevelAt classifies the duty window [start, now].
// Returns FatigueNone when the driver is off duty (start == nil).
func FatigueLevelAt(start *time.Time, now time.Time) models.FatigueLevel {
	if start == nil {
		return models.FatigueNone
	}

	elapsed := now.Sub(*start)
	switch {
	case elapsed <= LowFatigueLimit:
		return models.FatigueLow
	case elapsed <= MediumFatigueLimit:
		return models.FatigueMedium
	case elapsed <= HighFatigueLimit:
		return models.FatigueHigh
	default:
		return models.FatigueCritical
	}
}

// Summarize counts on-duty drivers per fatigue level with a full scan
func Summarize(drivers []models.DriverRecord, now time.Time) models.FatigueSummary {
	var summary models.FatigueSummary
	for _, d := range drivers {
		summary.Add(FatigueLevelAt(d.DutyStart, now))
	}
	return summary
}

// DwellTime formats the time spent on duty as "Xh Ym", or "N/A" when off duty
func DwellTime(start *time.Time, now time.Time) string {
	if start == nil {
		return "N/A"
	}

	elapsed := now.Sub(*start)
	if elapsed < 0 {
		elapsed = 0
	}
	hours := int(elapsed.Hours())
	minutes := int(elapsed.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
