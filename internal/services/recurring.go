// Package services holds the orchestration layer above the raw API
// client: recurring template materialization and the notification
// center.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"controlgastos/internal/core"
)

// RecurringBackend is the slice of the Payments API the materializer
// needs.
type RecurringBackend interface {
	ListCompanies(ctx context.Context) ([]core.Company, error)
	ListTemplates(ctx context.Context, companyID string) ([]core.Template, error)
	ListPayments(ctx context.Context, companyID string) ([]core.Payment, error)
	CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error)
}

// RecurringMaterializer turns active recurring service templates into
// concrete pending payments, one per template per calendar month. A
// template is exhausted once its total installment count has been
// materialized.
type RecurringMaterializer struct {
	backend RecurringBackend
}

func NewRecurringMaterializer(backend RecurringBackend) *RecurringMaterializer {
	return &RecurringMaterializer{backend: backend}
}

// ProcessAll materializes due templates for every company and returns
// the number of payments created. A failing company is logged and
// skipped so one bad scope does not starve the rest.
func (m *RecurringMaterializer) ProcessAll(ctx context.Context, now time.Time) (int, error) {
	if m.backend == nil {
		return 0, fmt.Errorf("materializer not properly initialized")
	}

	companies, err := m.backend.ListCompanies(ctx)
	if err != nil {
		return 0, fmt.Errorf("list companies: %w", err)
	}

	created := 0
	for _, co := range companies {
		n, err := m.ProcessCompany(ctx, co.ID, now)
		if err != nil {
			slog.ErrorContext(ctx, "Recurring processing failed for company",
				"company_id", co.ID,
				"error", err)
			continue
		}
		created += n
	}

	slog.InfoContext(ctx, "Recurring processing complete",
		"companies", len(companies),
		"payments_created", created,
		"processing_date", now.Format("2006-01-02"))
	return created, nil
}

// ProcessCompany materializes the due templates of a single company.
func (m *RecurringMaterializer) ProcessCompany(ctx context.Context, companyID string, now time.Time) (int, error) {
	templates, err := m.backend.ListTemplates(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("list templates: %w", err)
	}
	if len(templates) == 0 {
		return 0, nil
	}

	payments, err := m.backend.ListPayments(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("list payments: %w", err)
	}

	created := 0
	for _, tpl := range templates {
		existing := paymentsForTemplate(payments, tpl.Title)
		if !isDue(tpl, existing, now) {
			continue
		}

		p := materialize(tpl, existing, now)
		if _, err := m.backend.CreatePayment(ctx, p); err != nil {
			slog.ErrorContext(ctx, "Failed to create payment from template",
				"template_id", tpl.ID,
				"title", tpl.Title,
				"error", err)
			continue
		}

		created++
		slog.InfoContext(ctx, "Created payment from recurring template",
			"template_id", tpl.ID,
			"title", tpl.Title,
			"amount_cents", tpl.InstallmentAmount.Cents,
			"installment", len(existing)+1,
			"of", tpl.TotalInstallments)
	}
	return created, nil
}

// paymentsForTemplate returns the payments already materialized from
// the template, matched by title. Title is the only stable link the
// API exposes between a template and its payments.
func paymentsForTemplate(payments []core.Payment, title string) []core.Payment {
	var out []core.Payment
	for _, p := range payments {
		if p.DisplayTitle() == title {
			out = append(out, p)
		}
	}
	return out
}

// isDue reports whether the template should produce a payment now:
// not yet started, not exhausted, none created this month yet, and the
// template's control day has been reached (clamped to month length).
func isDue(tpl core.Template, existing []core.Payment, now time.Time) bool {
	if len(existing) >= tpl.TotalInstallments {
		return false
	}
	start := tpl.StartControlDate
	if !start.IsZero() && now.Before(start.Time) {
		return false
	}
	for _, p := range existing {
		if p.DueDate.SameMonth(now.Year(), int(now.Month())) {
			return false
		}
	}

	targetDay := now.Day()
	if !start.IsZero() {
		targetDay = start.Day()
	}
	lastDayOfMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if targetDay > lastDayOfMonth {
		targetDay = lastDayOfMonth
	}
	return now.Day() >= targetDay
}

// materialize builds the pending payment for the template's next
// installment, due on the control day of the current month.
func materialize(tpl core.Template, existing []core.Payment, now time.Time) core.Payment {
	day := now.Day()
	if !tpl.StartControlDate.IsZero() {
		day = tpl.StartControlDate.Day()
	}
	lastDayOfMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDayOfMonth {
		day = lastDayOfMonth
	}

	installment := len(existing) + 1
	notes := fmt.Sprintf("Cuota %d de %d", installment, tpl.TotalInstallments)
	return core.Payment{
		CompanyID: tpl.CompanyID,
		Title:     tpl.Title,
		Amount:    tpl.InstallmentAmount,
		DueDate:   core.NewDate(now.Year(), int(now.Month()), day),
		Status:    core.StatusPending,
		Category:  "Servicios",
		Notes:     notes,
		Reference: core.EncodeReference(tpl.Title, "", notes),
	}
}
