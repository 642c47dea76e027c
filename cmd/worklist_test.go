package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkmarble/renewals-backend/dto"
)

func TestRunWorklist_SampleAssets(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RunWorklist("", &out))

	var worklist dto.WorklistDto
	require.NoError(t, json.Unmarshal(out.Bytes(), &worklist))
	assert.NotEmpty(t, worklist.SessionId)
	assert.Len(t, worklist.Assets, 3)
	assert.Equal(t, 3, worklist.Summary.HighPriorityCount+
		worklist.Summary.MediumPriorityCount+worklist.Summary.LowPriorityCount)
}

func TestRunWorklist_AssetFile(t *testing.T) {
	end := time.Now().AddDate(0, 0, 200).Format(dto.DateLayout)
	path := filepath.Join(t.TempDir(), "assets.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"asset_id,customer,customer_type,product,licensing,contract_value,contract_start,"+
			"contract_end,last_discount_pct,usage_pct,usage_decline_pct,asset_age_years\n"+
			"A-3,Zento Pvt Ltd,Enterprise,Networking,Enterprise,10000,2023-01-01,"+end+",3,20,0,1\n"), 0o600))

	var out bytes.Buffer
	require.NoError(t, RunWorklist(path, &out))

	var worklist dto.WorklistDto
	require.NoError(t, json.Unmarshal(out.Bytes(), &worklist))
	require.Len(t, worklist.Assets, 1)
	assert.Equal(t, "Low", worklist.Assets[0].Priority)
	assert.Equal(t, "RenewalOnly", worklist.Assets[0].Expansion)
}

func TestRunWorklist_MissingFile(t *testing.T) {
	err := RunWorklist(filepath.Join(t.TempDir(), "missing.csv"), &bytes.Buffer{})
	assert.Error(t, err)
}
