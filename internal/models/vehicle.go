package models

// DisplayStatus is the vehicle-level status shown on dashboards
type DisplayStatus string

const (
	DisplayStatusOnDuty  DisplayStatus = "OnDuty"
	DisplayStatusIdle    DisplayStatus = "Idle"
	DisplayStatusOffline DisplayStatus = "Offline"
)

// JobStatus is the raw status of a job. Transitions are driven externally:
// Idle -> Received -> Accepted -> (en-route states) -> Completed
type JobStatus string

const (
	JobStatusIdle      JobStatus = "Idle"
	JobStatusEmpty     JobStatus = "Empty"
	JobStatusReceived  JobStatus = "Received"
	JobStatusAccepted  JobStatus = "Accepted"
	JobStatusEnRoute   JobStatus = "En Route"
	JobStatusArrived   JobStatus = "Arrived"
	JobStatusOnTrip    JobStatus = "On Trip"
	JobStatusCompleted JobStatus = "Completed"
)

// JobAssignment is the job currently associated with a vehicle
type JobAssignment struct {
	JobID          *string   `json:"job_id"`
	Title          string    `json:"title,omitempty"`
	Status         JobStatus `json:"status"`
	ServiceType    string    `json:"service_type"`
	Account        string    `json:"account"`
	PickupLocation string    `json:"pickup_location"`
	PickupTime     string    `json:"pickup_time"`
	ETA            *string   `json:"eta"`
	Distance       float64   `json:"distance"`
	DwellTime      string    `json:"dwell_time"`
}

// Clone returns a deep copy of the assignment
func (j *JobAssignment) Clone() *JobAssignment {
	if j == nil {
		return nil
	}
	c := *j
	if j.JobID != nil {
		id := *j.JobID
		c.JobID = &id
	}
	if j.ETA != nil {
		eta := *j.ETA
		c.ETA = &eta
	}
	return &c
}

// VehicleRecord is a projected vehicle, regenerated whenever drivers change
type VehicleRecord struct {
	ID            string         `json:"id"`
	Registration  string         `json:"registration"`
	VehicleClass  string         `json:"vehicle_class"`
	Make          string         `json:"make"`
	Model         string         `json:"model"`
	Capacity      int            `json:"capacity"`
	DriverName    string         `json:"driver_name"`
	DriverLicense string         `json:"driver_license"`
	DisplayStatus DisplayStatus  `json:"display_status"`
	Job           *JobAssignment `json:"job"`
}

// Clone returns a deep copy of the record
func (v VehicleRecord) Clone() VehicleRecord {
	c := v
	c.Job = v.Job.Clone()
	return c
}

// VehicleProfile describes the physical vehicle behind a registration
type VehicleProfile struct {
	VehicleClass string `json:"vehicle_class"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Capacity     int    `json:"capacity"`
}

// JobRequest is a manual dispatch request built by the dashboard
type JobRequest struct {
	ID           string `json:"id"`
	VehicleType  string `json:"vehicle_type"`
	CustomerName string `json:"customer_name"`
	From         string `json:"from"`
	Title        string `json:"title"`
}

// FleetStats aggregates the projected vehicles for dashboard cards
type FleetStats struct {
	TotalVehicles int `json:"total_vehicles"`
	OnDuty        int `json:"on_duty"`
	Idle          int `json:"idle"`
	Offline       int `json:"offline"`
	ActiveJobs    int `json:"active_jobs"`
}
