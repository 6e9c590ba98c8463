package models_test

import (
	"testing"

	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePurchaseType(t *testing.T) {
	for _, pt := range models.PurchaseTypes {
		got, err := models.ParsePurchaseType(string(pt))
		require.NoError(t, err)
		require.Equal(t, pt, got)
	}

	_, err := models.ParsePurchaseType("insurance")
	require.Error(t, err)
}

func TestStepLayout(t *testing.T) {
	tests := map[models.PurchaseType]int{
		models.PurchaseAirtime:     3,
		models.PurchaseData:        3,
		models.PurchaseBetting:     3,
		models.PurchaseElectricity: 4,
		models.PurchaseCableTV:     4,
		models.PurchaseGiftCard:    4,
		models.PurchaseESim:        4,
	}
	for pt, steps := range tests {
		assert.Equal(t, steps, pt.TotalSteps(), pt)
		assert.Equal(t, steps-1, pt.ConfirmStep(), pt)
		assert.Equal(t, steps, pt.SuccessStep(), pt)
	}
	assert.Equal(t, []string{"Info", "Amount", "Confirm", "Done"}, models.PurchaseElectricity.StepLabels())
}

func TestSetRejectsForeignField(t *testing.T) {
	d := models.NewDetails(models.PurchaseBetting)
	require.False(t, models.Set(d, models.FieldMeterNumber, "123"))
	require.True(t, models.Set(d, models.FieldBettingUserID, "u-1"))
	require.Equal(t, "u-1", models.Value(d, models.FieldBettingUserID))
}

func TestAirtimeBulkGate(t *testing.T) {
	d := models.NewDetails(models.PurchaseAirtime).(*models.AirtimeDetails)
	d.FullName, d.Email = "Ada Obi", "ada@example.com"
	d.Bulk = true
	d.Recipients = []models.BulkRecipient{{Phone: "08031234567", Network: "1"}}

	require.Equal(t, []models.Field{models.FieldRecipients}, d.Missing(1))

	d.Recipients = append(d.Recipients, models.BulkRecipient{Phone: "08051234567", Network: "3", Amount: "200"})
	require.Empty(t, d.Missing(1))
	require.Len(t, d.CompleteRecipients(), 1)
}

func TestDataBulkGate(t *testing.T) {
	d := models.NewDetails(models.PurchaseData).(*models.DataDetails)
	d.FullName, d.Email, d.Network, d.Plan = "Ada", "ada@example.com", "1", "p1"
	d.Bulk = true
	d.Numbers = []string{" ", ""}

	require.Equal(t, []models.Field{models.FieldRecipients}, d.Missing(1))

	d.Numbers[1] = "08031234567"
	require.Empty(t, d.Missing(1))
}

func TestRegistrationPhone(t *testing.T) {
	e := models.NewDetails(models.PurchaseElectricity)
	require.Equal(t, models.GuestPhoneFallback, models.RegistrationPhone(e))

	models.Set(e, models.FieldMeterNumber, "45011223344")
	require.Equal(t, "45011223344", models.RegistrationPhone(e))

	b := models.NewDetails(models.PurchaseBetting)
	models.Set(b, models.FieldBettingUserID, "bettor")
	require.Equal(t, "bettor", models.RegistrationPhone(b))
}
