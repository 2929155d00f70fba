package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"tradein-estimator/config"
	"tradein-estimator/internal/model"
)

const unknownBoatType = "Unknown"

var (
	leadingIntRegexp   = regexp.MustCompile(`^[-+]?\d+`)
	leadingFloatRegexp = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)
)

// ColumnMapping names the header of each record field in one source.
// BoatType and EngineHP may be empty when the source does not carry them.
type ColumnMapping struct {
	Year         string
	Make         string
	Model        string
	BoatType     string
	EngineHP     string
	TradeInValue string
}

// NewColumnMapping reads the columns map of a configured source.
func NewColumnMapping(src config.HistoricalSource) ColumnMapping {
	return ColumnMapping{
		Year:         src.Columns["year"],
		Make:         src.Columns["make"],
		Model:        src.Columns["model"],
		BoatType:     src.Columns["boat_type"],
		EngineHP:     src.Columns["engine_hp"],
		TradeInValue: src.Columns["trade_in_value"],
	}
}

type columnIndex struct {
	year, make, model, boatType, engineHP, value int
}

// ParseHistoricalCSV reads delimited trade-in records. Rows without a numeric
// year and value, with an empty make or model, or shorter than the header are
// skipped. A missing required column fails the whole source.
func ParseHistoricalCSV(r io.Reader, mapping ColumnMapping, defaultBoatType string) ([]model.HistoricalRecord, error) {
	if defaultBoatType == "" {
		defaultBoatType = unknownBoatType
	}

	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []model.HistoricalRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = cleanField(header[i])
	}

	idx, err := resolveColumns(header, mapping)
	if err != nil {
		return nil, err
	}

	records := []model.HistoricalRecord{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			continue
		}
		if err != nil {
			return records, fmt.Errorf("read row: %w", err)
		}
		if len(row) < len(header) {
			continue
		}

		rec, ok := parseRow(row, idx, defaultBoatType)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func resolveColumns(header []string, mapping ColumnMapping) (columnIndex, error) {
	find := func(name string) int {
		if name == "" {
			return -1
		}
		for i, h := range header {
			if h == name {
				return i
			}
		}
		return -1
	}

	idx := columnIndex{
		year:     find(mapping.Year),
		make:     find(mapping.Make),
		model:    find(mapping.Model),
		boatType: find(mapping.BoatType),
		engineHP: find(mapping.EngineHP),
		value:    find(mapping.TradeInValue),
	}

	required := []struct {
		name string
		pos  int
	}{
		{mapping.Year, idx.year},
		{mapping.Make, idx.make},
		{mapping.Model, idx.model},
		{mapping.TradeInValue, idx.value},
	}
	for _, col := range required {
		if col.pos < 0 {
			return idx, fmt.Errorf("required column %q not found", col.name)
		}
	}
	return idx, nil
}

func parseRow(row []string, idx columnIndex, defaultBoatType string) (model.HistoricalRecord, bool) {
	year, ok := parseLeadingInt(cleanField(row[idx.year]))
	if !ok {
		return model.HistoricalRecord{}, false
	}
	value, ok := ParseCurrency(cleanField(row[idx.value]))
	if !ok {
		return model.HistoricalRecord{}, false
	}

	rec := model.HistoricalRecord{
		Year:            year,
		Make:            cleanField(row[idx.make]),
		Model:           cleanField(row[idx.model]),
		BoatType:        defaultBoatType,
		TradeInValueCAD: value,
	}
	if rec.Make == "" || rec.Model == "" {
		return model.HistoricalRecord{}, false
	}
	if idx.boatType >= 0 {
		if bt := cleanField(row[idx.boatType]); bt != "" {
			rec.BoatType = bt
		}
	}
	if idx.engineHP >= 0 {
		if hp, ok := parseLeadingInt(cleanField(row[idx.engineHP])); ok {
			rec.EngineHP = hp
		}
	}
	return rec, true
}

func cleanField(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}

func parseLeadingInt(s string) (int, bool) {
	match := leadingIntRegexp.FindString(s)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseCurrency reads amounts such as "$12,345", "12345.50" or "8000 CAD".
// Blank and "N/A" are not numbers.
func ParseCurrency(s string) (float64, bool) {
	cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(s))
	if cleaned == "" || strings.EqualFold(cleaned, "N/A") {
		return 0, false
	}
	match := leadingFloatRegexp.FindString(cleaned)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
