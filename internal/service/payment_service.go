package service

import (
	"context"
	"fmt"
	"time"
	"unicode"

	"storefront/internal/session"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// PaymentService validates the mock card form and records the session
// payment flag. It never contacts a real processor; the flag is a stand-in
// for a payment-authorization interface.
type PaymentService struct {
	sessions *session.Store
	logger   *zap.Logger
	now      func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(sessions *session.Store) *PaymentService {
	return &PaymentService{
		sessions: sessions,
		logger:   util.GetLogger(),
		now:      time.Now,
	}
}

// CardForm carries the mock card fields from the payment page.
type CardForm struct {
	CardNumber string `form:"card_no" json:"card_no"`
	HolderName string `form:"name" json:"name"`
	Expiry     string `form:"expiry_date" json:"expiry_date"` // MMYYYY
	CVV        string `form:"cvv" json:"cvv"`
}

// Submit validates the card form and, on success, marks the session as
// payment-acknowledged. Field errors are keyed by field name.
func (ps *PaymentService) Submit(ctx context.Context, token string, form *CardForm) (map[string]string, error) {
	util.PaymentAttemptsTotal.Inc()

	fieldErrors := ValidateCard(form, ps.now())
	if len(fieldErrors) > 0 {
		for field := range fieldErrors {
			util.PaymentRejectedTotal.WithLabelValues(field).Inc()
		}
		return fieldErrors, nil
	}

	if err := ps.sessions.MarkPaymentReceived(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	ps.logger.Info("Payment received")
	return nil, nil
}

// ValidateCard checks the mock card fields: a 16-digit number, an alphabetic
// holder name, an MMYYYY expiry not in the past and a 3-digit CVV.
func ValidateCard(form *CardForm, now time.Time) map[string]string {
	fieldErrors := make(map[string]string)

	if !digitsOnly(form.CardNumber) || len(form.CardNumber) != 16 {
		fieldErrors["card_no"] = "Card number must be 16 digits"
	}
	if !alphabeticName(form.HolderName) {
		fieldErrors["name"] = "Card holder name must be alphabetic"
	}
	if msg := validateExpiry(form.Expiry, now); msg != "" {
		fieldErrors["expiry_date"] = msg
	}
	if !digitsOnly(form.CVV) || len(form.CVV) != 3 {
		fieldErrors["cvv"] = "CVV must be 3 digits"
	}

	return fieldErrors
}

func validateExpiry(expiry string, now time.Time) string {
	if len(expiry) != 6 || !digitsOnly(expiry) {
		return "Expiry must be MMYYYY"
	}

	month := int(expiry[0]-'0')*10 + int(expiry[1]-'0')
	if month < 1 || month > 12 {
		return "Expiry must be MMYYYY"
	}
	year := 0
	for _, c := range expiry[2:] {
		year = year*10 + int(c-'0')
	}

	// Card is valid through the last instant of its expiry month.
	expiresAt := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	if !now.Before(expiresAt) {
		return "Card expired"
	}
	return ""
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func alphabeticName(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !unicode.IsLetter(c) && c != ' ' {
			return false
		}
	}
	return true
}
