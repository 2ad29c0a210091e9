package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"fleetdash-backend/internal/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMService handles Firebase Cloud Messaging
type FCMService struct {
	client *messaging.Client
}

// NewFCMService creates a new FCM service instance from a credentials file
func NewFCMService(credentialsFile string) (*FCMService, error) {
	return newFCMService(option.WithCredentialsFile(credentialsFile))
}

// NewFCMServiceFromBase64 creates a new FCM service instance from base64-encoded credentials
// This is useful for cloud deployments where you can't upload files easily
func NewFCMServiceFromBase64(credentialsBase64 string) (*FCMService, error) {
	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}
	return newFCMService(option.WithCredentialsJSON(credentialsJSON))
}

func newFCMService(opt option.ClientOption) (*FCMService, error) {
	ctx := context.Background()

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// SendFatigueAlert notifies a driver that their duty time crossed a fatigue threshold
func (s *FCMService) SendFatigueAlert(ctx context.Context, token string, alert models.Alert) error {
	message := buildMessage(
		"Fatigue Warning",
		fmt.Sprintf("You have reached %s fatigue. Please plan a break.", alert.Level),
		alertData(alert),
	)
	message.Token = token

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending FCM message: %w", err)
	}

	log.Printf("✅ FCM fatigue alert sent: %s", response)
	return nil
}

// SendJobAssignedNotification tells a driver a job was dispatched to their vehicle
func (s *FCMService) SendJobAssignedNotification(ctx context.Context, token string, alert models.Alert) error {
	message := buildMessage("New Job Assigned!", alert.Message, alertData(alert))
	message.Token = token

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending FCM message: %w", err)
	}

	log.Printf("✅ FCM job notification sent: %s", response)
	return nil
}

// SendSupervisorAlert sends the same alert to every supervisor device
func (s *FCMService) SendSupervisorAlert(ctx context.Context, tokens []string, alert models.Alert) error {
	if len(tokens) == 0 {
		return nil
	}

	single := buildMessage("Driver Fatigue Alert", alert.Message, alertData(alert))
	message := &messaging.MulticastMessage{
		Tokens:       tokens,
		Notification: single.Notification,
		Data:         single.Data,
		Android:      single.Android,
		APNS:         single.APNS,
	}

	response, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending multicast message: %w", err)
	}

	log.Printf("✅ Multicast sent: %d success, %d failures", response.SuccessCount, response.FailureCount)
	return nil
}

func buildMessage(title, body string, data map[string]string) *messaging.Message {
	return &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}
}

func alertData(alert models.Alert) map[string]string {
	data := map[string]string{
		"type":     string(alert.Type),
		"alert_id": alert.ID,
	}
	if alert.DriverLicense != "" {
		data["driver_license"] = alert.DriverLicense
	}
	if alert.VehicleID != "" {
		data["vehicle_id"] = alert.VehicleID
	}
	if alert.Level != models.FatigueNone {
		data["level"] = string(alert.Level)
	}
	return data
}
