package repositories

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"

	"github.com/checkmarble/renewals-backend/dto"
	"github.com/checkmarble/renewals-backend/models"
)

type AssetFileFormat string

const (
	AssetFileCsv  AssetFileFormat = "csv"
	AssetFileXlsx AssetFileFormat = "xlsx"
	AssetFileJson AssetFileFormat = "json"
)

// Accepted spellings of dates in spreadsheet cells, normalised to dto.DateLayout.
var assetFileDateLayouts = []string{
	dto.DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/06",
	"01-02-06",
}

func AssetFileFormatFromName(fileName string) (AssetFileFormat, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return AssetFileCsv, nil
	case ".xlsx":
		return AssetFileXlsx, nil
	case ".json":
		return AssetFileJson, nil
	default:
		return "", errors.Wrapf(models.BadParameterError,
			"unsupported asset file %q: expecting .csv, .xlsx or .json", fileName)
	}
}

func ReadAssetFile(path string) ([]models.Asset, error) {
	format, err := AssetFileFormatFromName(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open asset file %s", path)
	}
	defer f.Close()

	return ReadAssets(f, format)
}

// ReadAssets parses a file of assets. Tabular formats need a header row naming the
// columns like the JSON fields. The first invalid row fails the whole file.
func ReadAssets(r io.Reader, format AssetFileFormat) ([]models.Asset, error) {
	var rows []dto.AssetDto
	var err error

	switch format {
	case AssetFileJson:
		err = json.NewDecoder(r).Decode(&rows)
		if err != nil {
			err = errors.Wrap(models.BadParameterError, "could not decode json asset file: "+err.Error())
		}
	case AssetFileCsv:
		rows, err = readCsvAssets(r)
	case AssetFileXlsx:
		rows, err = readXlsxAssets(r)
	default:
		err = errors.Wrapf(models.BadParameterError, "unsupported asset file format %q", format)
	}
	if err != nil {
		return nil, err
	}

	assets := make([]models.Asset, 0, len(rows))
	for i, row := range rows {
		asset, err := dto.AdaptAsset(row)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i+1)
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func readCsvAssets(r io.Reader) ([]dto.AssetDto, error) {
	csvReader := csv.NewReader(withoutBom(r))
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(models.BadParameterError, "failed to read csv: "+err.Error())
	}
	return tableToAssetDtos(records)
}

func readXlsxAssets(r io.Reader) ([]dto.AssetDto, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read xlsx payload")
	}

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(models.BadParameterError, "failed to open xlsx: "+err.Error())
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Wrap(models.BadParameterError, "excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(models.BadParameterError, "failed to read rows from xlsx: "+err.Error())
	}
	return tableToAssetDtos(rows)
}

func tableToAssetDtos(records [][]string) ([]dto.AssetDto, error) {
	var header map[string]int
	out := make([]dto.AssetDto, 0, len(records))

	for idx, row := range records {
		if isBlankRow(row) {
			continue
		}
		if header == nil {
			header = make(map[string]int, len(row))
			for col, name := range row {
				header[normalizeColumnName(name)] = col
			}
			continue
		}

		asset, err := rowToAssetDto(header, row)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", idx+1)
		}
		out = append(out, asset)
	}

	if header == nil {
		return nil, errors.Wrap(models.BadParameterError, "no rows found in file")
	}
	return out, nil
}

func rowToAssetDto(header map[string]int, row []string) (dto.AssetDto, error) {
	cell := func(column string) string {
		idx, ok := header[column]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	asset := dto.AssetDto{
		AssetId:      cell("asset_id"),
		Customer:     cell("customer"),
		CustomerType: cell("customer_type"),
		Product:      cell("product"),
		Licensing:    cell("licensing"),
	}

	numbers := []struct {
		column string
		target **float64
	}{
		{"contract_value", &asset.ContractValue},
		{"last_discount_pct", &asset.LastDiscountPct},
		{"usage_pct", &asset.UsagePct},
		{"usage_decline_pct", &asset.UsageDeclinePct},
		{"asset_age_years", &asset.AssetAgeYears},
	}
	for _, n := range numbers {
		value, err := parseOptionalNumber(cell(n.column))
		if err != nil {
			return dto.AssetDto{}, errors.Wrapf(models.ErrInvalidAsset,
				"asset %q: %s: %s", asset.AssetId, n.column, err)
		}
		*n.target = value
	}

	asset.ContractStart = normalizeDate(cell("contract_start"))
	asset.ContractEnd = normalizeDate(cell("contract_end"))

	return asset, nil
}

// Empty cells stay nil so that validation reports them as missing.
func parseOptionalNumber(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	s = strings.TrimSuffix(strings.ReplaceAll(s, ",", ""), "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, err
	}
	// ParseFloat accepts "NaN" and "Inf" spellings
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errors.Newf("%q is not a finite number", s)
	}
	return &v, nil
}

// Unparseable dates are passed through untouched and rejected by validation.
func normalizeDate(s string) string {
	for _, layout := range assetFileDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dto.DateLayout)
		}
	}
	return s
}

func normalizeColumnName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), "_")
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Spreadsheet tools commonly prefix csv exports with a UTF-8 byte order mark.
func withoutBom(r io.Reader) io.Reader {
	buf := bufio.NewReader(r)
	if b, err := buf.Peek(3); err == nil && bytes.Equal(b, []byte{0xef, 0xbb, 0xbf}) {
		_, _ = buf.Discard(3)
	}
	return buf
}
