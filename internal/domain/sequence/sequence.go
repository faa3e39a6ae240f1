// Package sequence allocates human-readable sequential identifiers such as
// CASH-0007, Inv-012 and P-003.
//
// The next identifier is derived on demand from the identifiers already
// visible to the caller: max(existing)+1, zero padded. Nothing is persisted
// as a counter, so gaps left by deleted records are never reused. Two callers
// that read the same state concurrently will compute the same identifier and
// the later save wins. Callers that need exclusion run the whole
// read-compute-save sequence inside a Guard.
package sequence

import (
	"fmt"
	"strconv"
	"strings"
)

// Family describes one identifier series
type Family struct {
	Prefix string
	Pad    int
}

// Identifier families
var (
	CashInvoice        = Family{Prefix: "CASH-", Pad: 4}
	PurchaseInvoice    = Family{Prefix: "Inv-", Pad: 3}
	Product            = Family{Prefix: "P-", Pad: 3}
	InstallmentInvoice = Family{Prefix: "INS-", Pad: 4}
	InstallmentPayment = Family{Prefix: "PAY-", Pad: 4}
	Customer           = Family{Prefix: "CUS-", Pad: 3}
	Guarantor          = Family{Prefix: "GUA-", Pad: 3}
	Supplier           = Family{Prefix: "SUP-", Pad: 3}
)

// NextID returns prefix + (max numeric suffix among existing + 1), zero padded
// to padWidth. IDs with a different prefix or a non-numeric suffix are ignored.
// With no usable IDs the series starts at 1.
func NextID(existing []string, prefix string, padWidth int) string {
	highest, _ := MaxSuffix(existing, prefix)
	return Format(prefix, padWidth, highest+1)
}

// MaxSuffix returns the highest numeric suffix among ids carrying prefix.
// found is false when no id qualified.
func MaxSuffix(ids []string, prefix string) (highest int, found bool) {
	for _, id := range ids {
		n, ok := parseSuffix(id, prefix)
		if !ok {
			continue
		}
		if !found || n > highest {
			highest = n
			found = true
		}
	}
	return highest, found
}

// Format renders n in the series
func Format(prefix string, padWidth, n int) string {
	return fmt.Sprintf("%s%0*d", prefix, padWidth, n)
}

func parseSuffix(id, prefix string) (int, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	suffix := id[len(prefix):]
	if suffix == "" {
		return 0, false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Next returns the next identifier of the family given every source the
// family's identifiers may already live in (for example the current
// collection and a history log).
func (f Family) Next(sources ...[]string) string {
	var all []string
	for _, s := range sources {
		all = append(all, s...)
	}
	return NextID(all, f.Prefix, f.Pad)
}

// Format renders n in the family's series
func (f Family) Format(n int) string {
	return Format(f.Prefix, f.Pad, n)
}

// Max returns the highest suffix of the family found in ids
func (f Family) Max(ids []string) (int, bool) {
	return MaxSuffix(ids, f.Prefix)
}
