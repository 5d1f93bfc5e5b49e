package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var portugueseMonths = []string{
	"janeiro",
	"fevereiro",
	"março",
	"abril",
	"maio",
	"junho",
	"julho",
	"agosto",
	"setembro",
	"outubro",
	"novembro",
	"dezembro",
}

// FormatLongDate returns the date as "19 de outubro de 2026".
// The wall-clock date of t is used as-is; callers pick the location.
func FormatLongDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	monthIndex := int(t.Month()) - 1
	if monthIndex < 0 || monthIndex >= len(portugueseMonths) {
		return t.Format("02/01/2006")
	}

	return strconv.Itoa(t.Day()) + " de " + portugueseMonths[monthIndex] + " de " + strconv.Itoa(t.Year())
}

// FormatLongDatePtr returns the long date for pointer values.
func FormatLongDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatLongDate(*t)
}

// FormatBRL formats an amount as Brazilian reais, e.g. "R$ 1.234,50".
// Negative amounts are written as "-R$ 1.234,50". The digits come from the
// decimal itself, so large amounts are never rounded through float64.
func FormatBRL(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		fixed = fixed[1:]
		if strings.Trim(fixed, "0.") != "" {
			sign = "-"
		}
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	return sign + "R$ " + groupThousands(intPart) + "," + fracPart
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatBRLPtr returns "" for a nil amount.
func FormatBRLPtr(amount *decimal.Decimal) string {
	if amount == nil {
		return ""
	}
	return FormatBRL(*amount)
}

// ValueOr returns the trimmed value, or placeholder when the value is blank.
func ValueOr(value, placeholder string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return placeholder
	}
	return trimmed
}

// UpperPT upper-cases text with Portuguese casing rules. Casers keep state, so
// one is built per call.
func UpperPT(text string) string {
	return cases.Upper(language.BrazilianPortuguese).String(text)
}
