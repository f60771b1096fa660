// Package pricing computes quote totals in integer minor units (cents).
// Keeping currency arithmetic on int64 avoids the drift a float64 sum would
// accumulate across add-on prices.
package pricing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Cents is a currency amount in minor units.
type Cents int64

var printer = message.NewPrinter(language.English)

// Format renders the amount with two decimal places and thousands
// separators, e.g. 2050000 -> "20,500.00".
func (c Cents) Format() string {
	neg := c < 0
	if neg {
		c = -c
	}
	whole := int64(c) / 100
	frac := int64(c) % 100
	s := printer.Sprintf("%d", whole) + fmt.Sprintf(".%02d", frac)
	if neg {
		return "-" + s
	}
	return s
}

var ErrInvalidAmount = errors.New("invalid_amount")

// ParseAmount converts a decimal currency string ("20500", "20,500.00") to
// cents. At most two fractional digits are accepted.
func ParseAmount(s string) (Cents, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, ErrInvalidAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	v := Cents(w*100 + f)
	if neg {
		v = -v
	}
	return v, nil
}

// FeaturePrice is the priced part of a selected add-on.
type FeaturePrice struct {
	MonthlyCents Cents
	OneTimeCents Cents
}

// Totals carries the two derived quote totals.
type Totals struct {
	MonthlyCents Cents
	OneTimeCents Cents
}

// Aggregate sums the recurring and one-time components of a quote:
// monthly = bandwidth price + selected feature monthly prices,
// one-time = service setup fee + selected feature one-time fees.
// Pure and deterministic; absent inputs contribute zero.
func Aggregate(bandwidthMonthly, setupFee Cents, features []FeaturePrice) Totals {
	t := Totals{MonthlyCents: bandwidthMonthly, OneTimeCents: setupFee}
	for _, f := range features {
		t.MonthlyCents += f.MonthlyCents
		t.OneTimeCents += f.OneTimeCents
	}
	return t
}
