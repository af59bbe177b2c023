package core

import (
	"regexp"
	"strings"
)

// Legacy payment records pack the display title, invoice number and
// notes into the free-text reference field with ad hoc delimiters:
//
//	Alquiler Oficina (Fac: A-0042) [pagar antes del 10]
//
// New records carry title/invoice_number/notes as structured fields and
// only generate the combined string for backends that still read it.

var (
	invoiceRe = regexp.MustCompile(`\(Fac: (.*?)\)`)
	notesRe   = regexp.MustCompile(`\[(.*?)\]`)
)

// EncodeReference builds the legacy combined reference string from
// structured fields. Empty segments are omitted.
func EncodeReference(title, invoiceNumber, notes string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(title))
	if invoiceNumber != "" {
		b.WriteString(" (Fac: ")
		b.WriteString(invoiceNumber)
		b.WriteString(")")
	}
	if notes != "" {
		b.WriteString(" [")
		b.WriteString(notes)
		b.WriteString("]")
	}
	return strings.TrimSpace(b.String())
}

// DecodeReference extracts structured fields from a legacy reference
// string. Best effort: delimiters inside user text make the split
// ambiguous, which is why the structured fields are authoritative for
// records that have them.
func DecodeReference(ref string) (title, invoiceNumber, notes string) {
	title = ref
	if i := strings.IndexByte(title, '['); i >= 0 {
		title = title[:i]
	}
	if m := invoiceRe.FindStringSubmatch(ref); m != nil {
		invoiceNumber = m[1]
		title = strings.Replace(title, m[0], "", 1)
	}
	if m := notesRe.FindStringSubmatch(ref); m != nil {
		notes = m[1]
	}
	return strings.TrimSpace(title), invoiceNumber, notes
}

// DisplayTitle returns the payment's structured title when present,
// falling back to the legacy reference prefix.
func (p Payment) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	title, _, _ := DecodeReference(p.Reference)
	return title
}
