package printing

import (
	"html/template"
	"strings"
	"time"

	"github.com/erp/pos/internal/domain/shared/valueobject"
	"github.com/erp/pos/internal/domain/trade"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders numbers and dates for one shop locale
type Formatter struct {
	currency string
	printer  *message.Printer
	title    cases.Caser
	loc      *time.Location
}

// NewFormatter creates a formatter. currency prefixes money values ("Rs").
func NewFormatter(currency string, tag language.Tag, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{
		currency: currency,
		printer:  message.NewPrinter(tag),
		title:    cases.Title(tag),
		loc:      loc,
	}
}

// Money formats a as "Rs 1,234.50"
func (f *Formatter) Money(a valueobject.Amount) string {
	return strings.TrimSpace(f.currency + " " + f.Number(a.Decimal()))
}

// Number formats d with thousands grouping and exactly two decimals.
// Grouping is applied to the integer part only so no precision goes through
// float64.
func (f *Formatter) Number(d decimal.Decimal) string {
	fixed := valueobject.Round2(d).Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	n := decimal.RequireFromString(intPart).IntPart()
	out := f.printer.Sprintf("%d", n) + "." + frac
	if d.Round(2).IsNegative() {
		out = "-" + out
	}
	return out
}

// Int formats n with thousands grouping
func (f *Formatter) Int(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// Percent formats a percentage without trailing zeros ("12.5%")
func (f *Formatter) Percent(d decimal.Decimal) string {
	return d.String() + "%"
}

// Date formats t as 02 Jan 2006 in the shop's time zone
func (f *Formatter) Date(t time.Time) string {
	return t.In(f.loc).Format("02 Jan 2006")
}

// DateTime formats t as 02 Jan 2006 15:04 in the shop's time zone
func (f *Formatter) DateTime(t time.Time) string {
	return t.In(f.loc).Format("02 Jan 2006 15:04")
}

// PaymentLabel is the printed name of a payment method
func (f *Formatter) PaymentLabel(m trade.PaymentMethod) string {
	return f.title.String(strings.ReplaceAll(string(m), "_", " "))
}

func (f *Formatter) funcMap() template.FuncMap {
	return template.FuncMap{
		"money":          f.Money,
		"number":         f.Number,
		"formatInt":      f.Int,
		"percent":        f.Percent,
		"formatDate":     f.Date,
		"formatDateTime": f.DateTime,
		"paymentLabel":   f.PaymentLabel,
	}
}
