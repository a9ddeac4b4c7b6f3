// Package currency formats whole-peso amounts for display. Prices in
// this system are plain non-negative integers with no minor unit.
package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders integer peso amounts with locale grouping.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter builds a formatter for the given BCP 47 locale tag.
// Unparseable tags fall back to es-AR, the storefront's home locale.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse("es-AR")
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Format renders an amount with thousands grouping, e.g. 50000 -> "50.000"
// under es-AR.
func (f *Formatter) Format(amount int) string {
	return f.printer.Sprint(number.Decimal(amount))
}

// FormatPrice renders an amount prefixed with the peso sign.
func (f *Formatter) FormatPrice(amount int) string {
	return "$" + f.Format(amount)
}
