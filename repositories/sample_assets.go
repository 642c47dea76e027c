package repositories

import (
	"time"

	"github.com/checkmarble/renewals-backend/models"
)

// SampleAssets returns the demo portfolio, with contract dates relative to now.
func SampleAssets(now time.Time) []models.Asset {
	today := models.StartOfDay(now)
	return []models.Asset{
		{
			AssetId:         "A-10001",
			Customer:        "ABC Corp",
			CustomerType:    "Enterprise",
			Product:         "Servers",
			ContractValue:   42000,
			ContractStart:   today.AddDate(0, 0, -900),
			ContractEnd:     today.AddDate(0, 0, 120),
			UsagePct:        88,
			UsageDeclinePct: 5,
			AssetAgeYears:   4.2,
			LastDiscountPct: 10,
			Licensing:       "Per-core",
		},
		{
			AssetId:         "A-10002",
			Customer:        "Delta Inc",
			CustomerType:    "SMB",
			Product:         "Storage",
			ContractValue:   12000,
			ContractStart:   today.AddDate(0, 0, -600),
			ContractEnd:     today.AddDate(0, 0, 45),
			UsagePct:        35,
			UsageDeclinePct: 55,
			AssetAgeYears:   1.3,
			LastDiscountPct: 18,
			Licensing:       "Capacity",
		},
		{
			AssetId:         "A-10003",
			Customer:        "Zento Pvt Ltd",
			CustomerType:    "Enterprise",
			Product:         "Networking",
			ContractValue:   68000,
			ContractStart:   today.AddDate(0, 0, -1200),
			ContractEnd:     today.AddDate(0, 0, 20),
			UsagePct:        92,
			UsageDeclinePct: 0,
			AssetAgeYears:   5.1,
			LastDiscountPct: 5,
			Licensing:       "Enterprise",
		},
	}
}
