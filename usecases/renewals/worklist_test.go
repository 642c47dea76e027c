package renewals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkmarble/renewals-backend/models"
)

func worklistFixture(t *testing.T) []models.ScoredAsset {
	t.Helper()
	scored, err := ScoreAssets([]models.Asset{
		assetA1(),
		assetWith(func(a *models.Asset) {
			a.AssetId = "A-2"
			a.CustomerType = "SMB"
			a.Product = "Storage"
			a.ContractValue = 18000
			a.ContractEnd = testNow.AddDate(0, 0, 45)
			a.UsagePct = 35
		}),
		assetWith(func(a *models.Asset) {
			a.AssetId = "A-3"
			a.CustomerType = "Enterprise"
			a.Product = "Storage"
			a.ContractValue = 10000
			a.ContractEnd = testNow.AddDate(0, 0, 200)
			a.UsagePct = 50
		}),
	}, testNow)
	require.NoError(t, err)
	return scored
}

func TestFilterWorklist(t *testing.T) {
	assets := worklistFixture(t)

	assert.Len(t, FilterWorklist(assets, models.WorklistFilter{}), 3)

	storage := FilterWorklist(assets, models.WorklistFilter{Products: []string{"Storage"}})
	require.Len(t, storage, 2)
	assert.Equal(t, "A-2", storage[0].AssetId)

	maxDays := 60
	urgentEnterprise := FilterWorklist(assets, models.WorklistFilter{
		CustomerTypes:   []string{"Enterprise"},
		MaxDaysToExpiry: &maxDays,
	})
	require.Len(t, urgentEnterprise, 1)
	assert.Equal(t, "A-1", urgentEnterprise[0].AssetId)

	low := FilterWorklist(assets, models.WorklistFilter{Priorities: []models.Priority{models.PriorityLow}})
	require.Len(t, low, 1)
	assert.Equal(t, "A-3", low[0].AssetId)
}

func TestSummarize(t *testing.T) {
	summary := Summarize(worklistFixture(t))

	assert.Equal(t, 1, summary.HighPriorityCount)
	assert.Equal(t, 1, summary.MediumPriorityCount)
	assert.Equal(t, 1, summary.LowPriorityCount)
	assert.Equal(t, 35700.0+16740+9800, summary.ExpectedRevenueImpact)
	require.Len(t, summary.Products, 2)
	assert.Equal(t, "Servers", summary.Products[0].Product)
	assert.Equal(t, "Storage", summary.Products[1].Product)
	assert.Equal(t, 2, summary.Products[1].Assets)
	assert.Equal(t, 16740.0+9800, summary.Products[1].ExpectedRevenueImpact)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.AvgProbabilityToClose)
	assert.Empty(t, summary.Products)
	assert.NotNil(t, summary.Products)
}
