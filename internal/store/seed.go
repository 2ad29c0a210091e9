package store

import (
	"log"
	"math/rand"
	"time"

	"fleetdash-backend/internal/models"
)

// maxSeedDutyOffset bounds the random duty start offset of seeded drivers,
// wide enough to land drivers in every fatigue bucket
const maxSeedDutyOffset = 14 * time.Hour

// BaseDrivers is the fixed demo roster. Every driver starts off duty.
func BaseDrivers() []models.DriverRecord {
	return []models.DriverRecord{
		{LicenseNumber: "DL-0420110012345", Name: "Rajesh Kumar", ContactNumber: "+91 98100 11223", LicenseExpiry: "2027-04-30", InsuranceExpiry: "2026-12-31", FitnessCertificateExpiry: "2026-09-15", PermitExpiry: "2027-01-31", AllowedVehicleClasses: []string{"LMV", "HMV"}, AssignedVehicleRegistration: "DL01AB1234"},
		{LicenseNumber: "MH-1220150067890", Name: "Suresh Patil", ContactNumber: "+91 98200 44556", LicenseExpiry: "2028-02-28", InsuranceExpiry: "2026-11-30", FitnessCertificateExpiry: "2026-08-01", PermitExpiry: "2027-03-31", AllowedVehicleClasses: []string{"HMV"}, AssignedVehicleRegistration: "MH12CD5678"},
		{LicenseNumber: "KA-0320180045678", Name: "Anil Gowda", ContactNumber: "+91 98450 77889", LicenseExpiry: "2029-06-30", InsuranceExpiry: "2027-01-15", FitnessCertificateExpiry: "2026-10-20", PermitExpiry: "2027-05-31", AllowedVehicleClasses: []string{"LMV"}, AssignedVehicleRegistration: "KA03EF9012"},
		{LicenseNumber: "TN-0920120023456", Name: "Murugan Selvam", ContactNumber: "+91 94440 12345", LicenseExpiry: "2026-12-31", InsuranceExpiry: "2026-10-31", FitnessCertificateExpiry: "2026-07-31", PermitExpiry: "2026-12-31", AllowedVehicleClasses: []string{"HMV", "HGMV"}, AssignedVehicleRegistration: "TN09GH3456"},
		{LicenseNumber: "UP-1420160089012", Name: "Vikram Singh", ContactNumber: "+91 99100 67890", LicenseExpiry: "2028-08-31", InsuranceExpiry: "2027-02-28", FitnessCertificateExpiry: "2026-11-30", PermitExpiry: "2027-06-30", AllowedVehicleClasses: []string{"LMV"}, AssignedVehicleRegistration: "UP14IJ7890"},
		{LicenseNumber: "GJ-0120190034567", Name: "Harish Patel", ContactNumber: "+91 98980 23456", LicenseExpiry: "2029-03-31", InsuranceExpiry: "2027-03-31", FitnessCertificateExpiry: "2027-01-31", PermitExpiry: "2027-07-31", AllowedVehicleClasses: []string{"LMV", "MGV"}, AssignedVehicleRegistration: "GJ01KL2345"},
		{LicenseNumber: "RJ-1420140056789", Name: "Mahesh Sharma", ContactNumber: "+91 94140 34567", LicenseExpiry: "2027-10-31", InsuranceExpiry: "2026-12-15", FitnessCertificateExpiry: "2026-09-30", PermitExpiry: "2027-02-28", AllowedVehicleClasses: []string{"HMV"}, AssignedVehicleRegistration: "RJ14MN6789"},
		{LicenseNumber: "WB-0220170078901", Name: "Sourav Das", ContactNumber: "+91 98300 45678", LicenseExpiry: "2028-05-31", InsuranceExpiry: "2027-04-30", FitnessCertificateExpiry: "2027-02-28", PermitExpiry: "2027-08-31", AllowedVehicleClasses: []string{"LMV"}, AssignedVehicleRegistration: "WB02OP0123"},
	}
}

// SeedDrivers returns the base roster with randomized duty starts relative
// to now. Roughly one in four drivers is left off duty.
func SeedDrivers(rng *rand.Rand, now time.Time) []models.DriverRecord {
	drivers := BaseDrivers()
	onDuty := 0
	for i := range drivers {
		if rng.Intn(4) == 0 {
			continue
		}
		start := now.Add(-time.Duration(rng.Int63n(int64(maxSeedDutyOffset))))
		drivers[i].DutyStart = &start
		onDuty++
	}

	log.Printf("🌱 Seeded %d driver(s), %d on duty", len(drivers), onDuty)
	return drivers
}

// NewRand returns a deterministic source for SeedDrivers
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
