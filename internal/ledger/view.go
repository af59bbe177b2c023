package ledger

import (
	"sort"
	"time"

	"controlgastos/internal/core"
)

// DefaultCategories seeds the suggestion vocabulary. Free text is
// always accepted; these only drive input suggestions.
var DefaultCategories = []string{
	"General", "Servicios", "Hogar", "Oficina", "Personal",
	"Comida", "Transporte", "Salud", "Educación", "Entretenimiento",
}

// MonthView is the derived projection of one company's payments for a
// single calendar month, with the KPI aggregates computed over exactly
// that subset. It is recomputed on demand and never persisted.
type MonthView struct {
	Year  int
	Month int // 1-12

	Payments []core.Payment

	TotalPending core.Money // sum over status != paid
	TotalPaid    core.Money // sum over status == paid
	OverdueCount int        // overdue, or unpaid past due at "now"
}

// BuildMonthView filters payments down to those due in (year, month)
// and computes the aggregates. now anchors the overdue check.
func BuildMonthView(payments []core.Payment, year, month int, now time.Time) MonthView {
	v := MonthView{Year: year, Month: month}
	for _, p := range payments {
		if !p.DueDate.SameMonth(year, month) {
			continue
		}
		v.Payments = append(v.Payments, p)
		if p.Status == core.StatusPaid {
			v.TotalPaid.Cents += p.Amount.Cents
		} else {
			v.TotalPending.Cents += p.Amount.Cents
		}
		if p.IsOverdue(now) {
			v.OverdueCount++
		}
	}
	return v
}

// IDs returns the payment ids of the view in display order.
func (v MonthView) IDs() []string {
	ids := make([]string, len(v.Payments))
	for i, p := range v.Payments {
		ids[i] = p.ID
	}
	return ids
}

// CategoryVocabulary returns the default category names unioned with
// every distinct category observed on the given payments, deduplicated
// and sorted. Payments without a category count as "General".
func CategoryVocabulary(payments []core.Payment) []string {
	seen := make(map[string]struct{}, len(DefaultCategories)+len(payments))
	for _, c := range DefaultCategories {
		seen[c] = struct{}{}
	}
	for _, p := range payments {
		c := p.Category
		if c == "" {
			c = "General"
		}
		seen[c] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
