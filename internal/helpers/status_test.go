package helpers

import (
	"testing"
	"time"

	"fleetdash-backend/internal/models"
)

func TestDisplayStatusFor(t *testing.T) {
	now := time.Now()
	jobID := "JOB-1"

	tests := []struct {
		name  string
		job   *models.JobAssignment
		start *time.Time
		want  models.DisplayStatus
	}{
		{"active job on duty", &models.JobAssignment{JobID: &jobID, Status: models.JobStatusAccepted}, &now, models.DisplayStatusOnDuty},
		{"active job off duty", &models.JobAssignment{JobID: &jobID, Status: models.JobStatusEnRoute}, nil, models.DisplayStatusOnDuty},
		{"completed job on duty", &models.JobAssignment{JobID: &jobID, Status: models.JobStatusCompleted}, &now, models.DisplayStatusIdle},
		{"completed job off duty", &models.JobAssignment{JobID: &jobID, Status: models.JobStatusCompleted}, nil, models.DisplayStatusOffline},
		{"idle job without id", &models.JobAssignment{Status: models.JobStatusIdle}, &now, models.DisplayStatusIdle},
		{"no job off duty", nil, nil, models.DisplayStatusOffline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayStatusFor(tt.job, tt.start); got != tt.want {
				t.Errorf("DisplayStatusFor() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIsActiveJobStatus(t *testing.T) {
	inactive := []models.JobStatus{models.JobStatusCompleted, models.JobStatusIdle, models.JobStatusEmpty, ""}
	for _, s := range inactive {
		if IsActiveJobStatus(s) {
			t.Errorf("%q should not be active", s)
		}
	}
	active := []models.JobStatus{models.JobStatusReceived, models.JobStatusAccepted, models.JobStatusEnRoute, "Loading"}
	for _, s := range active {
		if !IsActiveJobStatus(s) {
			t.Errorf("%q should be active", s)
		}
	}
}
