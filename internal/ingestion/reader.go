package ingestion

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/carebridge/registry-backend/internal/logger"
	"github.com/carebridge/registry-backend/internal/types"
)

// Input column names, shared by the CSV and Excel readers.
var requiredColumns = []string{
	"guardian_name",
	"email",
	"resides_in_target_country",
	"country",
	"creation_date",
	"region_id",
	"given_name",
	"family_name",
	"date_of_birth",
	"gender",
	"diagnosis_type",
	"age",
	"age_group",
	"relationship",
}

type Reader struct {
	log *logger.Logger
}

func NewReader(baseLog *logger.Logger) *Reader {
	return &Reader{log: baseLog.With("service", "IngestionReader")}
}

// ReadRows loads the input file into typed batch rows. The format is chosen
// by extension: .xlsx/.xlsm go through excelize, everything else is parsed
// as CSV. A missing header column is fatal (the whole file is unusable);
// malformed cells are coerced leniently so a single odd value stays a
// row-level concern downstream.
func (r *Reader) ReadRows(path string) ([]types.BatchRow, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		records, err = r.readExcel(path)
	default:
		records, err = r.readCSV(path)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("input file %s is empty", path)
	}

	index, err := headerIndex(records[0])
	if err != nil {
		return nil, fmt.Errorf("input file %s: %w", path, err)
	}

	rows := make([]types.BatchRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, r.buildRow(record, index))
	}
	r.log.Info("Read input rows", "path", path, "rows", len(rows))
	return rows, nil
}

func (r *Reader) readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return records, nil
}

func (r *Reader) readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return records, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func (r *Reader) buildRow(record []string, index map[string]int) types.BatchRow {
	cell := func(col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	age := 0
	if raw := cell("age"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			r.log.Warn("Could not parse age, keeping zero", "value", raw)
		} else {
			age = parsed
		}
	}

	return types.BatchRow{
		Contact: types.ContactData{
			GuardianName:           cell("guardian_name"),
			Email:                  cell("email"),
			ResidesInTargetCountry: parseBool(cell("resides_in_target_country")),
			Country:                cell("country"),
			CreationDate:           cell("creation_date"),
			RegionID:               cell("region_id"),
		},
		Patient: types.PatientData{
			GivenName:     cell("given_name"),
			FamilyName:    cell("family_name"),
			DateOfBirth:   cell("date_of_birth"),
			Gender:        cell("gender"),
			DiagnosisType: cell("diagnosis_type"),
			CreationDate:  cell("creation_date"),
			Age:           age,
			AgeGroup:      cell("age_group"),
			RegionID:      cell("region_id"),
		},
		Relationship: cell("relationship"),
	}
}

func parseBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "si", "sí":
		return true
	default:
		return false
	}
}
