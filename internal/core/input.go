package core

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// PaymentInput carries user-entered create/update fields before they
// are parsed into a Payment. Amounts and dates stay strings here so
// that every local validation failure is caught before a network call.
type PaymentInput struct {
	Title         string `validate:"required"`
	Amount        string `validate:"required"`
	DueDate       string `validate:"required,datetime=2006-01-02"`
	Status        string `validate:"omitempty,oneof=pending paid overdue"`
	Method        string
	Category      string
	InvoiceNumber string
	Notes         string
}

// Validate checks the input without touching the network. Amount must
// parse as a non-negative decimal; zero is explicitly allowed.
func (in PaymentInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("invalid payment input: %w", err)
	}
	if _, err := ParseDecimalToCents(in.Amount); err != nil {
		return err
	}
	return nil
}

// ToPayment validates the input and builds the Payment to submit for
// the given company. The legacy combined reference is generated here,
// at the boundary; the structured fields remain authoritative.
func (in PaymentInput) ToPayment(companyID string) (Payment, error) {
	if err := in.Validate(); err != nil {
		return Payment{}, err
	}
	cents, err := ParseDecimalToCents(in.Amount)
	if err != nil {
		return Payment{}, err
	}
	due, err := ParseDate(in.DueDate)
	if err != nil {
		return Payment{}, err
	}
	status := PaymentStatus(in.Status)
	if in.Status == "" {
		status = StatusPending
	}
	p := Payment{
		CompanyID:     companyID,
		Amount:        Money{Cents: cents},
		DueDate:       due,
		Status:        status,
		Method:        in.Method,
		Category:      in.Category,
		Title:         in.Title,
		InvoiceNumber: in.InvoiceNumber,
		Notes:         in.Notes,
		Reference:     EncodeReference(in.Title, in.InvoiceNumber, in.Notes),
	}
	if err := p.Validate(); err != nil {
		return Payment{}, err
	}
	return p, nil
}
