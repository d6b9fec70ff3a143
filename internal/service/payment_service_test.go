package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func validForm() *CardForm {
	return &CardForm{
		CardNumber: "4111111111111111",
		HolderName: "Ada Lovelace",
		Expiry:     "122027",
		CVV:        "123",
	}
}

func TestValidateCardAccepts(t *testing.T) {
	assert.Empty(t, ValidateCard(validForm(), testNow))
}

func TestValidateCardNumber(t *testing.T) {
	form := validForm()

	form.CardNumber = "411111111111111" // 15 digits
	errs := ValidateCard(form, testNow)
	assert.Contains(t, errs, "card_no")

	form.CardNumber = "4111-1111-1111-11"
	errs = ValidateCard(form, testNow)
	assert.Contains(t, errs, "card_no")
}

func TestValidateCardHolderName(t *testing.T) {
	form := validForm()
	form.HolderName = "Ada L0velace"
	errs := ValidateCard(form, testNow)
	assert.Contains(t, errs, "name")

	form.HolderName = ""
	errs = ValidateCard(form, testNow)
	assert.Contains(t, errs, "name")
}

func TestValidateCardExpiry(t *testing.T) {
	form := validForm()

	form.Expiry = "012020"
	errs := ValidateCard(form, testNow)
	assert.Equal(t, "Card expired", errs["expiry_date"])

	// Expiry month itself is still valid.
	form.Expiry = "032026"
	errs = ValidateCard(form, testNow)
	assert.NotContains(t, errs, "expiry_date")

	form.Expiry = "132027"
	errs = ValidateCard(form, testNow)
	assert.Contains(t, errs, "expiry_date")

	form.Expiry = "12/27"
	errs = ValidateCard(form, testNow)
	assert.Contains(t, errs, "expiry_date")
}

func TestValidateCardCVV(t *testing.T) {
	form := validForm()

	form.CVV = "12"
	errs := ValidateCard(form, testNow)
	assert.Contains(t, errs, "cvv")

	form.CVV = "12a"
	errs = ValidateCard(form, testNow)
	assert.Contains(t, errs, "cvv")
}
