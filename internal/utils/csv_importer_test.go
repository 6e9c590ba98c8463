package utils

import (
	"strings"
	"testing"

	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBeneficiariesCSV(t *testing.T) {
	input := strings.Join([]string{
		"MSISDN, Full Name",
		"2348031234567, Mum",
		"0805 123 4567, Dad",
		"123, Short",
		", Nobody",
		"8071234567, Sis",
	}, "\n")

	result, err := ParseBeneficiariesCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 5, result.TotalRows)
	assert.Equal(t, []models.Beneficiary{
		{Name: "Mum", Phone: "08031234567"},
		{Name: "Dad", Phone: "08051234567"},
		{Name: "Sis", Phone: "08071234567"},
	}, result.Beneficiaries)
	assert.Len(t, result.Errors, 2)
}

func TestParseBeneficiariesCSVNeedsColumns(t *testing.T) {
	_, err := ParseBeneficiariesCSV(strings.NewReader("Name,Amount\nMum,100\n"))
	assert.Error(t, err)
}
