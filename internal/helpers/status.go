package helpers

import (
	"time"

	"fleetdash-backend/internal/models"
)

// DisplayStatusFor derives a vehicle's display status:
// OnDuty when it has a live job, Idle when the driver is on duty, else Offline
func DisplayStatusFor(job *models.JobAssignment, dutyStart *time.Time) models.DisplayStatus {
	if job != nil && job.JobID != nil && job.Status != models.JobStatusCompleted {
		return models.DisplayStatusOnDuty
	}
	if dutyStart != nil {
		return models.DisplayStatusIdle
	}
	return models.DisplayStatusOffline
}

// IsActiveJobStatus reports whether a job status counts as active work
func IsActiveJobStatus(status models.JobStatus) bool {
	switch status {
	case models.JobStatusCompleted, models.JobStatusIdle, models.JobStatusEmpty, "":
		return false
	}
	return true
}
