package contacts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"chatroom-service/internal/models"
)

// ErrMissingColumns aborts an import whose header has no name or phone column.
var ErrMissingColumns = errors.New("CSV needs columns with 'name' and 'phone' in their names")

// ImportResult reports what an import did.
type ImportResult struct {
	Imported []models.Contact `json:"imported"`
	Warnings []string         `json:"warnings"`
	Skipped  int              `json:"skipped"`
}

// ImportCSV reads contacts from a CSV with a header row and adds them to reg.
// Rows without a name or phone are skipped with a warning; duplicates are
// skipped silently.
func ImportCSV(r io.Reader, reg *Registry) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ImportResult{}, ErrMissingColumns
		}
		return ImportResult{}, fmt.Errorf("read csv header: %w", err)
	}

	columns := lo.Map(header, func(col string, _ int) string { return NormalizeHeader(col) })
	nameIdx, phoneIdx, ok := locateColumns(columns)
	if !ok {
		return ImportResult{}, ErrMissingColumns
	}

	result := ImportResult{Imported: []models.Contact{}, Warnings: []string{}}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("read csv line %d: %w", line, err)
		}

		name, phone := field(record, nameIdx), field(record, phoneIdx)
		if name == "" || phone == "" {
			warning := fmt.Sprintf("Skipping row %d due to missing name or phone.", line)
			log.Warn().Int("line", line).Msg("csv row missing name or phone")
			result.Warnings = append(result.Warnings, warning)
			result.Skipped++
			continue
		}

		contact, err := reg.Add(name, phone)
		if errors.Is(err, ErrDuplicateContact) {
			result.Skipped++
			continue
		}
		if err != nil {
			return result, err
		}
		result.Imported = append(result.Imported, contact)
	}
	return result, nil
}

// NormalizeHeader lower-cases and trims a column name and replaces spaces with underscores.
func NormalizeHeader(col string) string {
	col = strings.TrimPrefix(col, "\ufeff")
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(col)), " ", "_")
}

func locateColumns(columns []string) (nameIdx, phoneIdx int, ok bool) {
	_, nameIdx, nameOK := lo.FindIndexOf(columns, func(col string) bool {
		return strings.Contains(col, "name")
	})
	_, phoneIdx, phoneOK := lo.FindIndexOf(columns, func(col string) bool {
		return strings.Contains(col, "phone") || strings.Contains(col, "number")
	})
	return nameIdx, phoneIdx, nameOK && phoneOK
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
