// This file renders and parses money amounts for display. No conversion
// between currencies happens here: the code only picks the display rules.

package core

import (
	"math"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// DefaultCurrency is used when no preference has been stored.
const DefaultCurrency = "IDR"

const nbsp = "\u00a0"

type currencyLocale struct {
	tag     language.Tag
	group   string
	decimal string
	spacing string // between prefix and digits
}

var (
	localeID = currencyLocale{tag: language.MustParse("id-ID"), group: ".", decimal: ",", spacing: nbsp}
	localeUS = currencyLocale{tag: language.AmericanEnglish, group: ",", decimal: "."}
)

// Currencies without an entry render with en-US rules.
var currencyLocales = map[string]currencyLocale{
	"IDR": localeID,
	"USD": localeUS,
}

var currencySymbols = map[string]string{
	"IDR": "Rp",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

type numberFormat struct {
	locale  currencyLocale
	prefix  string
	spacing string
	minFrac int
	maxFrac int
}

// FormatOption adjusts how FormatCurrency renders an amount.
type FormatOption func(*numberFormat)

// WithFractionDigits overrides the currency's fraction digits. Trailing
// zeros are trimmed down to min.
func WithFractionDigits(min, max int) FormatOption {
	return func(f *numberFormat) {
		if min < 0 {
			min = 0
		}
		if max > 20 {
			max = 20
		}
		if max < min {
			max = min
		}
		f.minFrac, f.maxFrac = min, max
	}
}

// NormalizeCurrencyCode trims and upper-cases an ISO 4217 code.
func NormalizeCurrencyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CurrencyLocale returns the BCP 47 tag used to render code.
func CurrencyLocale(code string) string {
	return localeFor(NormalizeCurrencyCode(code)).tag.String()
}

// CurrencySeparators returns the digit group and decimal separators used
// to render code ("." and "," for IDR).
func CurrencySeparators(code string) (group, point string) {
	l := localeFor(NormalizeCurrencyCode(code))
	return l.group, l.decimal
}

// FormatCurrency renders amount for display in the given currency.
//
// IDR renders with the Indonesian locale and no forced fraction digits,
// USD with the US locale and cents. Unknown codes fall back to US rules:
// a recognised ISO code is used as the prefix, anything else renders the
// bare number. Non-finite amounts render as zero.
//
// Examples:
//
//	FormatCurrency(1000000, "IDR") -> "Rp 1.000.000"
//	FormatCurrency(1234.5, "USD")  -> "$1,234.50"
func FormatCurrency(amount float64, code string, opts ...FormatOption) string {
	f := resolveFormat(code)
	for _, opt := range opts {
		opt(&f)
	}
	return f.format(amount)
}

// FormatOptionalCurrency formats a possibly missing amount; nil is zero.
func FormatOptionalCurrency(amount *float64, code string, opts ...FormatOption) string {
	var v float64
	if amount != nil {
		v = *amount
	}
	return FormatCurrency(v, code, opts...)
}

// ParseCurrency reverses FormatCurrency for the same currency code.
func ParseCurrency(s, code string) (float64, error) {
	f := resolveFormat(code)

	s = strings.TrimSpace(strings.ReplaceAll(s, nbsp, " "))
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	if f.prefix != "" {
		s = strings.TrimSpace(strings.TrimPrefix(s, f.prefix))
	}
	s = strings.ReplaceAll(s, f.locale.group, "")
	if f.locale.decimal != "." {
		s = strings.Replace(s, f.locale.decimal, ".", 1)
	}
	if s == "" || strings.Count(s, ".") > 1 {
		return 0, ErrInvalidAmount
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return 0, ErrInvalidAmount
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if neg {
		d = d.Neg()
	}
	v, _ := d.Float64()
	return v, nil
}

func localeFor(code string) currencyLocale {
	if l, ok := currencyLocales[code]; ok {
		return l
	}
	return localeUS
}

func resolveFormat(code string) numberFormat {
	code = NormalizeCurrencyCode(code)
	f := numberFormat{locale: localeFor(code), minFrac: 2, maxFrac: 2}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return f
	}

	scale, _ := currency.Standard.Rounding(unit)
	f.minFrac, f.maxFrac = scale, scale
	if code == "IDR" {
		f.minFrac = 0
	}

	if sym, ok := currencySymbols[code]; ok {
		f.prefix, f.spacing = sym, f.locale.spacing
	} else {
		f.prefix, f.spacing = unit.String(), nbsp
	}
	return f
}

func (f numberFormat) format(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	d := decimal.NewFromFloat(amount).Round(int32(f.maxFrac))
	neg := d.IsNegative()
	digits := d.Abs().StringFixed(int32(f.maxFrac))

	intPart, frac, _ := strings.Cut(digits, ".")
	for len(frac) > f.minFrac && strings.HasSuffix(frac, "0") {
		frac = frac[:len(frac)-1]
	}

	n, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		n = new(big.Int)
	}
	grouped := strings.ReplaceAll(humanize.BigComma(n), ",", f.locale.group)

	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	if f.prefix != "" {
		b.WriteString(f.prefix)
		b.WriteString(f.spacing)
	}
	b.WriteString(grouped)
	if frac != "" {
		b.WriteString(f.locale.decimal)
		b.WriteString(frac)
	}
	return b.String()
}
