package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"fleetdash-backend/internal/helpers"
	"fleetdash-backend/internal/models"
	"fleetdash-backend/internal/services"
	"fleetdash-backend/internal/store"
	"fleetdash-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// DriverResponse is a driver with its derived duty fields
type DriverResponse struct {
	models.DriverRecord
	DutyStatus   models.DutyStatus    `json:"duty_status"`
	FatigueLevel *models.FatigueLevel `json:"fatigue_level"`
	DwellTime    string               `json:"dwell_time"`
}

// CreateDriverRequest is the body of POST /api/drivers
type CreateDriverRequest struct {
	LicenseNumber               string   `json:"license_number"`
	Name                        string   `json:"name"`
	ContactNumber               string   `json:"contact_number"`
	LicenseExpiry               string   `json:"license_expiry"`
	InsuranceExpiry             string   `json:"insurance_expiry"`
	FitnessCertificateExpiry    string   `json:"fitness_certificate_expiry"`
	PermitExpiry                string   `json:"permit_expiry"`
	AllowedVehicleClasses       []string `json:"allowed_vehicle_classes"`
	AssignedVehicleRegistration string   `json:"assigned_vehicle_registration"`
}

// RemoveDriversRequest is the body of DELETE /api/drivers
type RemoveDriversRequest struct {
	LicenseNumbers []string `json:"license_numbers"`
}

// StartDutyRequest optionally backdates the duty start (unix seconds)
type StartDutyRequest struct {
	StartTime *int64 `json:"start_time"`
}

// FCMTokenRequest registers a device token
type FCMTokenRequest struct {
	Token string `json:"token"`
}

func toDriverResponse(d models.DriverRecord, now time.Time) DriverResponse {
	resp := DriverResponse{
		DriverRecord: d,
		DutyStatus:   d.DutyStatus(),
		DwellTime:    helpers.DwellTime(d.DutyStart, now),
	}
	if level := helpers.FatigueLevelAt(d.DutyStart, now); level != models.FatigueNone {
		resp.FatigueLevel = &level
	}
	return resp
}

// GetDrivers returns every driver with duty status and fatigue level
func GetDrivers(registry *store.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📋 GetDrivers: Fetching all drivers...")

		now := registry.Now()
		drivers := registry.Drivers()
		resp := make([]DriverResponse, 0, len(drivers))
		for _, d := range drivers {
			resp = append(resp, toDriverResponse(d, now))
		}

		log.Printf("✅ Found %d driver(s)", len(resp))
		utils.RespondSuccess(w, http.StatusOK, resp)
	}
}

// GetDriver returns a single driver
func GetDriver(registry *store.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		license := chi.URLParam(r, "license")

		driver, ok := registry.Driver(license)
		if !ok {
			utils.RespondError(w, http.StatusNotFound, "Driver not found")
			return
		}
		utils.RespondSuccess(w, http.StatusOK, toDriverResponse(driver, registry.Now()))
	}
}

// CreateDriver adds a driver to the registry. New drivers start off duty.
func CreateDriver(registry *store.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: POST /api/drivers")

		var req CreateDriverRequest
		if _, err := utils.DecodeJSON(r, &req); err != nil {
			log.Printf("❌ Invalid request body: %v", err)
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		req.LicenseNumber = strings.TrimSpace(req.LicenseNumber)
		req.Name = strings.TrimSpace(req.Name)
		if req.LicenseNumber == "" || req.Name == "" {
			utils.RespondError(w, http.StatusBadRequest, "license_number and name are required")
			return
		}

		record := models.DriverRecord{
			LicenseNumber:               req.LicenseNumber,
			Name:                        req.Name,
			ContactNumber:               req.ContactNumber,
			LicenseExpiry:               req.LicenseExpiry,
			InsuranceExpiry:             req.InsuranceExpiry,
			FitnessCertificateExpiry:    req.FitnessCertificateExpiry,
			PermitExpiry:                req.PermitExpiry,
			AllowedVehicleClasses:       req.AllowedVehicleClasses,
			AssignedVehicleRegistration: req.AssignedVehicleRegistration,
		}
		registry.AddDriver(record)

		utils.RespondSuccess(w, http.StatusCreated, toDriverResponse(record, registry.Now()))
	}
}

// RemoveDrivers deletes drivers by license number. Unknown ids are ignored.
func RemoveDrivers(registry *store.Registry, tokens *services.TokenStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: DELETE /api/drivers")

		var req RemoveDriversRequest
		if _, err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if len(req.LicenseNumbers) == 0 {
			utils.RespondError(w, http.StatusBadRequest, "license_numbers is required")
			return
		}

		removed := registry.RemoveDrivers(req.LicenseNumbers...)
		if removed > 0 {
			tokens.RemoveDriverTokens(req.LicenseNumbers...)
		}

		log.Printf("✅ Removed %d of %d requested driver(s)", removed, len(req.LicenseNumbers))
		utils.RespondSuccess(w, http.StatusOK, map[string]int{"removed": removed})
	}
}

// StartDuty puts a driver on duty, now or at the given start_time
func StartDuty(registry *store.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		license := chi.URLParam(r, "license")
		log.Printf("📥 REQUEST: POST /api/drivers/%s/duty/start", license)

		var req StartDutyRequest
		if _, err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		start := registry.Now()
		if req.StartTime != nil {
			start = time.Unix(*req.StartTime, 0)
			if start.After(registry.Now()) {
				utils.RespondError(w, http.StatusBadRequest, "start_time cannot be in the future")
				return
			}
		}

		if !registry.SetDutyStart(license, &start) {
			log.Printf("⚠️  Driver not found: %s", license)
			utils.RespondError(w, http.StatusNotFound, "Driver not found")
			return
		}

		driver, _ := registry.Driver(license)
		utils.RespondSuccess(w, http.StatusOK, toDriverResponse(driver, registry.Now()))
	}
}

// EndDuty takes a driver off duty
func EndDuty(registry *store.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		license := chi.URLParam(r, "license")
		log.Printf("📥 REQUEST: POST /api/drivers/%s/duty/end", license)

		if !registry.SetDutyStart(license, nil) {
			log.Printf("⚠️  Driver not found: %s", license)
			utils.RespondError(w, http.StatusNotFound, "Driver not found")
			return
		}

		driver, _ := registry.Driver(license)
		utils.RespondSuccess(w, http.StatusOK, toDriverResponse(driver, registry.Now()))
	}
}

// GetFatigueSummary returns the last computed fatigue summary
func GetFatigueSummary(registry *store.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondSuccess(w, http.StatusOK, registry.Summary())
	}
}

// RegisterDriverFCMToken stores the device token used for a driver's pushes
func RegisterDriverFCMToken(registry *store.Registry, tokens *services.TokenStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		license := chi.URLParam(r, "license")

		var req FCMTokenRequest
		if _, err := utils.DecodeJSON(r, &req); err != nil || req.Token == "" {
			utils.RespondError(w, http.StatusBadRequest, "token is required")
			return
		}
		if _, ok := registry.Driver(license); !ok {
			utils.RespondError(w, http.StatusNotFound, "Driver not found")
			return
		}

		tokens.SetDriverToken(license, req.Token)
		log.Printf("✅ FCM token registered for driver %s", license)
		utils.RespondSuccess(w, http.StatusOK, map[string]string{"message": "Token registered"})
	}
}
