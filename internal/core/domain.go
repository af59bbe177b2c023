package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	StatusPending PaymentStatus = "pending"
	StatusPaid    PaymentStatus = "paid"
	StatusOverdue PaymentStatus = "overdue"
)

type (
	PaymentStatus string

	// Date is a calendar date. It marshals as YYYY-MM-DD and accepts
	// both plain dates and RFC3339 timestamps when decoding, since the
	// API emits either shape depending on the endpoint.
	Date struct {
		time.Time
	}

	// Money holds an amount in cents. The API speaks decimal numbers
	// (12.34), so the conversion happens in MarshalJSON/UnmarshalJSON.
	Money struct {
		Cents int64
	}

	Company struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		IsActive bool   `json:"is_active,omitempty"`
	}

	// Payment is a single financial obligation scoped to one company.
	// Title, InvoiceNumber and Notes are first-class fields; the legacy
	// combined reference string is produced only at the wire boundary.
	Payment struct {
		ID            string        `json:"id,omitempty"`
		CompanyID     string        `json:"company_id"`
		Amount        Money         `json:"amount"`
		DueDate       Date          `json:"due_date"`
		Status        PaymentStatus `json:"status"`
		Method        string        `json:"payment_method,omitempty"`
		Reference     string        `json:"payment_reference,omitempty"`
		Category      string        `json:"category,omitempty"`
		Title         string        `json:"title,omitempty"`
		InvoiceNumber string        `json:"invoice_number,omitempty"`
		Notes         string        `json:"notes,omitempty"`
	}

	// Template is a reusable definition for recurring service payments.
	Template struct {
		ID                string `json:"id,omitempty"`
		CompanyID         string `json:"company_id"`
		Title             string `json:"title"`
		InstallmentAmount Money  `json:"installment_amount"`
		TotalInstallments int    `json:"total_installments"`
		StartControlDate  Date   `json:"start_control_date"`
		AutopayEnabled    bool   `json:"autopay_enabled"`
	}

	NotificationItem struct {
		ID        string          `json:"id"`
		Channel   string          `json:"channel"`
		Status    string          `json:"status"`
		CreatedAt time.Time       `json:"created_at"`
		Payload   json.RawMessage `json:"payload"`
	}

	NotificationSettings struct {
		ID              string `json:"id"`
		CompanyID       string `json:"company_id,omitempty"`
		TelegramEnabled bool   `json:"telegram_enabled"`
		EmailEnabled    bool   `json:"email_enabled"`
		TelegramChatID  string `json:"telegram_chat_id,omitempty"`
		EmailAddress    string `json:"email_address,omitempty"`
	}
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrEmptyTitle     = errors.New("empty title")
	ErrEmptyCompany   = errors.New("empty company id")
	ErrUnknownCompany = errors.New("unknown company")
)

// IsValid reports whether the status is one of the three known states.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	default:
		return false
	}
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// SameMonth reports whether the date falls in the given year and month.
func (d Date) SameMonth(year, month int) bool {
	return d.Year() == year && int(d.Time.Month()) == month
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	// RFC3339 timestamps carry a T separator; keep only the date part.
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return ErrInvalidDate
	}
	*d = Date{Time: t}
	return nil
}

func (p Payment) Validate() error {
	if strings.TrimSpace(p.CompanyID) == "" {
		return ErrEmptyCompany
	}
	if p.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := p.DueDate.Validate(); err != nil {
		return err
	}
	if !p.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// IsOverdue reports whether the payment counts as overdue at the given
// instant: either flagged by the API or unpaid past its due date.
func (p Payment) IsOverdue(now time.Time) bool {
	if p.Status == StatusOverdue {
		return true
	}
	return p.Status != StatusPaid && p.DueDate.Before(now)
}

func (t Template) Validate() error {
	if strings.TrimSpace(t.CompanyID) == "" {
		return ErrEmptyCompany
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if t.InstallmentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if t.TotalInstallments < 1 {
		return errors.New("total installments must be at least 1")
	}
	return nil
}
