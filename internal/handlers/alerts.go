package handlers

import (
	"net/http"

	"fleetdash-backend/internal/services"
	"fleetdash-backend/pkg/utils"
)

// GetAlerts returns the alert feed, newest first
func GetAlerts(alerts *services.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondSuccess(w, http.StatusOK, alerts.Alerts())
	}
}

// RegisterSupervisorFCMToken subscribes a supervisor device to CRITICAL alerts
func RegisterSupervisorFCMToken(tokens *services.TokenStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FCMTokenRequest
		if _, err := utils.DecodeJSON(r, &req); err != nil || req.Token == "" {
			utils.RespondError(w, http.StatusBadRequest, "token is required")
			return
		}
		tokens.AddSupervisorToken(req.Token)
		utils.RespondSuccess(w, http.StatusOK, map[string]string{"message": "Token registered"})
	}
}
