package handlers

import (
	"log"
	"net/http"

	"fleetdash-backend/internal/models"
	"fleetdash-backend/internal/services"
	"fleetdash-backend/internal/store"
	"fleetdash-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// DashboardStatsResponse feeds the dashboard summary cards
type DashboardStatsResponse struct {
	Fleet   models.FleetStats     `json:"fleet"`
	Fatigue models.FatigueSummary `json:"fatigue"`
	Drivers int                   `json:"drivers"`
}

// GetVehicles returns the current projected vehicles
func GetVehicles(projector *store.Projector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicles := projector.Vehicles()

		if status := r.URL.Query().Get("status"); status != "" {
			filtered := make([]models.VehicleRecord, 0, len(vehicles))
			for _, v := range vehicles {
				if string(v.DisplayStatus) == status {
					filtered = append(filtered, v)
				}
			}
			vehicles = filtered
		}

		utils.RespondSuccess(w, http.StatusOK, vehicles)
	}
}

// GetVehicle returns one vehicle by id
func GetVehicle(projector *store.Projector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicle, ok := projector.Vehicle(chi.URLParam(r, "id"))
		if !ok {
			utils.RespondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		utils.RespondSuccess(w, http.StatusOK, vehicle)
	}
}

// AssignJob dispatches a manual job to a vehicle
func AssignJob(projector *store.Projector, alerts *services.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: POST /api/vehicles/%s/assign-job", vehicleID)

		if _, ok := projector.Vehicle(vehicleID); !ok {
			utils.RespondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}

		var req *models.JobRequest
		if _, err := utils.DecodeJSON(r, &req); err != nil {
			log.Printf("❌ Invalid request body: %v", err)
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		vehicle, ok := projector.AssignJobToVehicle(vehicleID, req)
		if !ok {
			if req == nil {
				utils.RespondError(w, http.StatusBadRequest, "Job is required")
				return
			}
			utils.RespondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}

		jobID := *vehicle.Job.JobID
		if alerts != nil {
			alerts.NotifyJobAssigned(vehicle, jobID)
		}

		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Printf("✅ JOB DISPATCHED")
		log.Printf("   🆔 Job: %s", jobID)
		log.Printf("   🚚 Vehicle: %s (%s)", vehicle.ID, vehicle.Registration)
		log.Printf("   👤 Driver: %s", vehicle.DriverName)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

		utils.RespondSuccess(w, http.StatusCreated, map[string]interface{}{
			"job_id":  jobID,
			"vehicle": vehicle,
		})
	}
}

// GetDashboardStats returns fleet and fatigue aggregates
func GetDashboardStats(registry *store.Registry, projector *store.Projector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondSuccess(w, http.StatusOK, DashboardStatsResponse{
			Fleet:   projector.Stats(),
			Fatigue: registry.Summary(),
			Drivers: registry.Len(),
		})
	}
}
