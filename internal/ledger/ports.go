package ledger

import (
	"context"

	"controlgastos/internal/core"
)

// Ports for the external Payments API. *api.Client satisfies this; the
// tests plug in fakes.
type (
	PaymentsAPI interface {
		ListCompanies(ctx context.Context) ([]core.Company, error)
		EnsureDefaultCompany(ctx context.Context) (core.Company, error)
		ListPayments(ctx context.Context, companyID string) ([]core.Payment, error)
		CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error)
		UpdatePayment(ctx context.Context, id string, p core.Payment) (core.Payment, error)
		DeletePayment(ctx context.Context, id string) error
	}

	// Confirmer gates destructive actions with a yes/no question. The
	// CLI wires a terminal prompt; embedding callers decide policy.
	Confirmer interface {
		Confirm(prompt string) bool
	}
)

// ConfirmFunc adapts a plain function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }
