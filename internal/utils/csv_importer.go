package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/ArowuTest/billstack-storefront/internal/msisdn"
)

// ImportResult summarises a CSV import
type ImportResult struct {
	TotalRows     int                  `json:"totalRows"`
	Beneficiaries []models.Beneficiary `json:"beneficiaries"`
	Errors        []string             `json:"errors"`
}

// ParseBeneficiariesCSV reads name and phone columns from a CSV with a header row.
// Phones are stored in local 0XXXXXXXXXX form. Bad rows are reported and skipped.
func ParseBeneficiariesCSV(r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	nameIdx := findColumnIndex(header, []string{"Name", "Full Name", "Beneficiary"})
	phoneIdx := findColumnIndex(header, []string{"Phone", "Phone Number", "MSISDN", "Mobile"})
	if nameIdx == -1 || phoneIdx == -1 {
		return nil, errors.New("name and phone columns are required")
	}

	result := &ImportResult{Beneficiaries: []models.Beneficiary{}, Errors: []string{}}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		result.TotalRows++
		if nameIdx >= len(record) || phoneIdx >= len(record) {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: missing columns", line))
			continue
		}

		name := strings.TrimSpace(record[nameIdx])
		phone := localPhone(record[phoneIdx])
		if name == "" || len(phone) != 11 {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: invalid name or phone", line))
			continue
		}
		result.Beneficiaries = append(result.Beneficiaries, models.Beneficiary{Name: name, Phone: phone})
	}
	return result, nil
}

func findColumnIndex(header []string, possibleNames []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, name := range possibleNames {
			if strings.ToLower(name) == h {
				return i
			}
		}
	}
	return -1
}

// localPhone converts 234XXXXXXXXXX and 10-digit spellings to 0XXXXXXXXXX
func localPhone(raw string) string {
	n := msisdn.Normalize(raw)
	if strings.HasPrefix(n, msisdn.CountryPrefix) {
		return "0" + n[len(msisdn.CountryPrefix):]
	}
	return n
}
