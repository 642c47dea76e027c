package renewals

import (
	"time"

	"github.com/checkmarble/renewals-backend/models"
)

var testNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

// assetA1 expires in 15 days, is heavily used and already carries a 10% discount.
func assetA1() models.Asset {
	return models.Asset{
		AssetId:         "A-1",
		Customer:        "ABC Corp",
		CustomerType:    "Enterprise",
		Product:         "Servers",
		Licensing:       "Per-core",
		ContractValue:   42000,
		ContractStart:   testNow.AddDate(-2, 0, 0),
		ContractEnd:     testNow.AddDate(0, 0, 15),
		UsagePct:        90,
		UsageDeclinePct: 2,
		AssetAgeYears:   4.2,
		LastDiscountPct: 10,
	}
}

func assetWith(mutate func(a *models.Asset)) models.Asset {
	a := assetA1()
	mutate(&a)
	return a
}
