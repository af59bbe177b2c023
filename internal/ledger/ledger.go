// Package ledger implements the payment-ledger view model: the single
// authority for which payments a company has in the selected month,
// the derived aggregates, and the selection/CRUD actions available on
// them. All writes go to the Payments API and are followed by a fresh
// read; nothing is merged optimistically into local state.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"controlgastos/internal/config"
	"controlgastos/internal/core"
)

// LoadState tracks the list's load lifecycle. Mutations run
// independently of it and are tracked by their callers.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateLoaded
	StateLoadError
)

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateLoadError:
		return "load-error"
	default:
		return "unknown"
	}
}

var (
	ErrNoCompanySelected = errors.New("no company selected")
	ErrEmptySelection    = errors.New("selection is empty")
	ErrDeclined          = errors.New("confirmation declined")
)

// Ledger owns the payment list, month cursor, selection set and
// derived view for one company/session context. At most one instance
// is active per session; all state behind the mutex is reachable only
// through the operations below and Snapshot.
type Ledger struct {
	api      PaymentsAPI
	confirm  Confirmer
	bulkMode string
	nowFn    func() time.Time

	mu         sync.Mutex
	companies  []core.Company
	companyID  string
	year       int
	month      int // 1-12
	payments   []core.Payment // full set for the company, unfiltered
	view       MonthView
	vocabulary []string
	selected   map[string]struct{}
	state      LoadState
	loadErr    error
	gen        uint64 // reload generation, bumped at issuance
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithConfirmer sets the yes/no gate for destructive actions. Without
// one, deletes proceed unprompted (the embedding caller is the gate).
func WithConfirmer(c Confirmer) Option {
	return func(l *Ledger) { l.confirm = c }
}

// WithBulkDeleteMode selects the partial-failure policy, one of
// config.BulkDeleteBestEffort or config.BulkDeleteStrict.
func WithBulkDeleteMode(mode string) Option {
	return func(l *Ledger) { l.bulkMode = mode }
}

// WithClock injects the time source used for the overdue check.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.nowFn = now }
}

// New creates a ledger positioned on the current month with no company
// selected. Call Init to load companies and the first month view.
func New(api PaymentsAPI, opts ...Option) *Ledger {
	l := &Ledger{
		api:      api,
		confirm:  ConfirmFunc(func(string) bool { return true }),
		bulkMode: config.BulkDeleteBestEffort,
		nowFn:    time.Now,
		selected: make(map[string]struct{}),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(l)
	}
	now := l.nowFn()
	l.year, l.month = now.Year(), int(now.Month())
	return l
}

// Init loads the company list, provisioning the default company when
// the list is empty, selects the preferred company and loads its
// payments.
func (l *Ledger) Init(ctx context.Context) error {
	companies, err := l.api.ListCompanies(ctx)
	if err != nil {
		return fmt.Errorf("list companies: %w", err)
	}
	if len(companies) == 0 {
		def, err := l.api.EnsureDefaultCompany(ctx)
		if err != nil {
			return fmt.Errorf("ensure default company: %w", err)
		}
		companies = []core.Company{def}
	}

	l.mu.Lock()
	l.companies = companies
	l.mu.Unlock()

	return l.SelectCompany(ctx, preferredCompany(companies))
}

// preferredCompany picks the company named Personal when present,
// matching how the dashboard chooses its initial scope.
func preferredCompany(companies []core.Company) string {
	for _, c := range companies {
		if c.Name == "Personal" {
			return c.ID
		}
	}
	return companies[0].ID
}

// SelectCompany switches the ledger's scope. The id must belong to a
// loaded company, or be empty to deselect. Selecting the current
// company is a no-op with no network call.
func (l *Ledger) SelectCompany(ctx context.Context, companyID string) error {
	l.mu.Lock()
	if companyID == l.companyID {
		l.mu.Unlock()
		return nil
	}
	if companyID != "" && !l.knownCompanyLocked(companyID) {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s", core.ErrUnknownCompany, companyID)
	}
	l.companyID = companyID
	l.payments = nil
	l.selected = make(map[string]struct{})
	l.recomputeLocked()
	if companyID == "" {
		l.state = StateIdle
		l.loadErr = nil
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	return l.Reload(ctx)
}

func (l *Ledger) knownCompanyLocked(id string) bool {
	for _, c := range l.companies {
		if c.ID == id {
			return true
		}
	}
	return false
}

// ShiftMonth moves the month cursor by delta calendar months, in
// either direction and without bounds, then reloads.
func (l *Ledger) ShiftMonth(ctx context.Context, delta int) error {
	l.mu.Lock()
	t := time.Date(l.year, time.Month(l.month+delta), 1, 0, 0, 0, 0, time.UTC)
	l.year, l.month = t.Year(), int(t.Month())
	l.mu.Unlock()

	return l.Reload(ctx)
}

// Reload fetches the company's full payment set and atomically
// replaces the view state. Concurrent reloads are ordered by issuance:
// a response belonging to a superseded call is discarded, so the view
// always reflects the most recently initiated reload. On failure the
// previous state stays visible and a recoverable error is returned.
func (l *Ledger) Reload(ctx context.Context) error {
	l.mu.Lock()
	if l.companyID == "" {
		l.mu.Unlock()
		return ErrNoCompanySelected
	}
	l.gen++
	gen := l.gen
	companyID := l.companyID
	l.state = StateLoading
	l.mu.Unlock()

	payments, err := l.api.ListPayments(ctx, companyID)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		// A newer reload was issued while this one was in flight.
		slog.DebugContext(ctx, "Discarding superseded reload",
			"company_id", companyID, "generation", gen, "current", l.gen)
		return nil
	}
	if err != nil {
		l.state = StateLoadError
		l.loadErr = err
		return fmt.Errorf("reload payments: %w", err)
	}

	l.payments = payments
	l.selected = make(map[string]struct{}) // ids may no longer exist
	l.vocabulary = CategoryVocabulary(payments)
	l.recomputeLocked()
	l.state = StateLoaded
	l.loadErr = nil
	return nil
}

func (l *Ledger) recomputeLocked() {
	l.view = BuildMonthView(l.payments, l.year, l.month, l.nowFn())
	if l.vocabulary == nil {
		l.vocabulary = CategoryVocabulary(nil)
	}
}

// CreatePayment validates the input locally, submits it and reloads so
// the view reflects the server's accepted state. On failure the caller
// keeps its form input; nothing was merged locally.
func (l *Ledger) CreatePayment(ctx context.Context, in core.PaymentInput) error {
	companyID := l.selectedCompany()
	if companyID == "" {
		return ErrNoCompanySelected
	}
	p, err := in.ToPayment(companyID)
	if err != nil {
		return err
	}
	if _, err := l.api.CreatePayment(ctx, p); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return l.Reload(ctx)
}

// UpdatePayment submits changed fields for an existing payment and
// reloads. The API is authoritative about whether the id still exists.
func (l *Ledger) UpdatePayment(ctx context.Context, id string, in core.PaymentInput) error {
	companyID := l.selectedCompany()
	if companyID == "" {
		return ErrNoCompanySelected
	}
	p, err := in.ToPayment(companyID)
	if err != nil {
		return err
	}
	if _, err := l.api.UpdatePayment(ctx, id, p); err != nil {
		return fmt.Errorf("update payment %s: %w", id, err)
	}
	return l.Reload(ctx)
}

// DeletePayment removes one payment after the confirmation gate, then
// reloads.
func (l *Ledger) DeletePayment(ctx context.Context, id string) error {
	if !l.confirm.Confirm("¿Eliminar este pago?") {
		return ErrDeclined
	}
	if err := l.api.DeletePayment(ctx, id); err != nil {
		return fmt.Errorf("delete payment %s: %w", id, err)
	}
	return l.Reload(ctx)
}

func (l *Ledger) selectedCompany() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.companyID
}

// ToggleSelection flips one payment id in the selection set. Purely
// local; the set is cleared whenever the list reloads.
func (l *Ledger) ToggleSelection(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.selected[id]; ok {
		delete(l.selected, id)
	} else {
		l.selected[id] = struct{}{}
	}
}

// ToggleSelectAll selects every payment of the current month view, or
// clears the set when the full view is already selected. The selection
// never reaches outside the month-scoped view.
func (l *Ledger) ToggleSelectAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := l.view.IDs()
	allSelected := len(ids) > 0
	for _, id := range ids {
		if _, ok := l.selected[id]; !ok {
			allSelected = false
			break
		}
	}
	if allSelected && len(l.selected) == len(ids) {
		l.selected = make(map[string]struct{})
		return
	}
	l.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		l.selected[id] = struct{}{}
	}
}

// ClearSelection empties the selection set (the explicit cancel).
func (l *Ledger) ClearSelection() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = make(map[string]struct{})
}

// BulkDelete deletes every selected payment. All delete calls are
// issued concurrently and awaited before anything else happens; there
// is no cancellation once dispatched. Partial failure follows the
// configured mode: best-effort clears the selection and reloads even
// when some calls failed, surfacing a single aggregate error that does
// not identify which ids failed; strict keeps the failed ids selected
// for retry. Both modes reload once all calls have settled.
func (l *Ledger) BulkDelete(ctx context.Context) error {
	l.mu.Lock()
	ids := make([]string, 0, len(l.selected))
	for id := range l.selected {
		ids = append(ids, id)
	}
	l.mu.Unlock()
	sort.Strings(ids)

	if len(ids) == 0 {
		return ErrEmptySelection
	}
	if !l.confirm.Confirm(fmt.Sprintf("¿Eliminar %d registros?", len(ids))) {
		return ErrDeclined
	}

	var (
		g        errgroup.Group
		failedMu sync.Mutex
		failed   = make(map[string]struct{})
	)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := l.api.DeletePayment(ctx, id); err != nil {
				// Diagnostic only; the surfaced error stays aggregate.
				slog.WarnContext(ctx, "Bulk delete item failed", "payment_id", id, "error", err)
				failedMu.Lock()
				failed[id] = struct{}{}
				failedMu.Unlock()
				return err
			}
			return nil
		})
	}
	firstErr := g.Wait() // all calls settle; Wait reports the first failure

	reloadErr := l.Reload(ctx)

	// Strict mode re-selects the failed ids after the reload cleared
	// the set, keeping only ids the fresh list still contains.
	if l.bulkMode == config.BulkDeleteStrict && len(failed) > 0 {
		l.mu.Lock()
		for _, p := range l.payments {
			if _, ok := failed[p.ID]; ok {
				l.selected[p.ID] = struct{}{}
			}
		}
		l.mu.Unlock()
	}

	if firstErr != nil {
		return fmt.Errorf("bulk delete: %d of %d deletions failed", len(failed), len(ids))
	}
	return reloadErr
}

// Snapshot holds a consistent copy of the ledger's observable state.
type Snapshot struct {
	Companies  []core.Company
	CompanyID  string
	Year       int
	Month      int
	View       MonthView
	Vocabulary []string
	Selected   []string // sorted
	State      LoadState
	LoadErr    error
}

// Snapshot returns the current state as one consistent copy; partial
// or interleaved updates are never observable.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Snapshot{
		Companies:  append([]core.Company(nil), l.companies...),
		CompanyID:  l.companyID,
		Year:       l.year,
		Month:      l.month,
		Vocabulary: append([]string(nil), l.vocabulary...),
		State:      l.state,
		LoadErr:    l.loadErr,
	}
	s.View = l.view
	s.View.Payments = append([]core.Payment(nil), l.view.Payments...)
	s.Selected = make([]string, 0, len(l.selected))
	for id := range l.selected {
		s.Selected = append(s.Selected, id)
	}
	sort.Strings(s.Selected)
	return s
}
