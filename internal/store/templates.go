package store

import "fleetdash-backend/internal/models"

func strPtr(s string) *string {
	return &s
}

// DefaultJobTemplates is the demo table of scripted jobs, keyed by the
// registrations in BaseDrivers. Some registrations are deliberately absent
// so those vehicles fall back to the default job.
func DefaultJobTemplates() JobTemplates {
	return JobTemplates{
		"DL01AB1234": {
			JobID:          strPtr("JOB-1001"),
			Title:          "Airport transfer",
			Status:         models.JobStatusEnRoute,
			ServiceType:    "Passenger",
			Account:        "Skyline Travels",
			PickupLocation: "Terminal 3, IGI Airport",
			PickupTime:     "09:30",
			ETA:            strPtr("15 mins"),
			Distance:       18.4,
		},
		"MH12CD5678": {
			JobID:          strPtr("JOB-1002"),
			Title:          "Warehouse restock",
			Status:         models.JobStatusAccepted,
			ServiceType:    "Freight",
			Account:        "Deccan Logistics",
			PickupLocation: "Chakan MIDC, Pune",
			PickupTime:     "11:00",
			ETA:            strPtr("40 mins"),
			Distance:       32.1,
		},
		"KA03EF9012": {
			JobID:          strPtr("JOB-1003"),
			Title:          "Corporate shuttle",
			Status:         models.JobStatusCompleted,
			ServiceType:    "Passenger",
			Account:        "Orion Tech Park",
			PickupLocation: "Whitefield, Bengaluru",
			PickupTime:     "07:45",
			Distance:       12.7,
		},
		"TN09GH3456": {
			JobID:          strPtr("JOB-1004"),
			Title:          "Container pickup",
			Status:         models.JobStatusReceived,
			ServiceType:    "Freight",
			Account:        "Coromandel Shipping",
			PickupLocation: "Chennai Port Gate 2",
			PickupTime:     "14:15",
			ETA:            strPtr("1 hr 5 mins"),
			Distance:       46.9,
		},
		"GJ01KL2345": {
			Status:         models.JobStatusEmpty,
			ServiceType:    "Freight",
			PickupLocation: "Naroda GIDC, Ahmedabad",
		},
	}
}

// DefaultVehicleCatalog describes the demo fleet
func DefaultVehicleCatalog() VehicleCatalog {
	return VehicleCatalog{
		"DL01AB1234": {VehicleClass: "LMV", Make: "Toyota", Model: "Innova Crysta", Capacity: 7},
		"MH12CD5678": {VehicleClass: "HMV", Make: "Tata", Model: "Ultra 1918", Capacity: 18000},
		"KA03EF9012": {VehicleClass: "LMV", Make: "Maruti Suzuki", Model: "Ertiga", Capacity: 7},
		"TN09GH3456": {VehicleClass: "HGMV", Make: "Ashok Leyland", Model: "4220", Capacity: 42000},
		"UP14IJ7890": {VehicleClass: "LMV", Make: "Hyundai", Model: "Aura", Capacity: 5},
		"GJ01KL2345": {VehicleClass: "MGV", Make: "Mahindra", Model: "Furio 7", Capacity: 7000},
		"RJ14MN6789": {VehicleClass: "HMV", Make: "BharatBenz", Model: "1617R", Capacity: 16000},
		"WB02OP0123": {VehicleClass: "LMV", Make: "Tata", Model: "Tigor EV", Capacity: 5},
	}
}
