package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Price is a display-only product price. The feed sends either a JSON
// number or a string; numeric strings are normalised like numbers and
// anything else is shown verbatim.
type Price struct {
	amount  decimal.Decimal
	raw     string
	numeric bool
	set     bool
}

// NewPrice builds a numeric price.
func NewPrice(amount decimal.Decimal) Price {
	return Price{amount: amount, numeric: true, set: true}
}

// ParsePrice builds a price from its textual form.
func ParsePrice(s string) Price {
	s = strings.TrimSpace(s)
	if s == "" {
		return Price{}
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return NewPrice(d)
	}
	return Price{raw: s, set: true}
}

// Decimal returns the numeric amount when the price is a number.
func (p Price) Decimal() (decimal.Decimal, bool) {
	return p.amount, p.numeric
}

func (p Price) IsZero() bool {
	return !p.set
}

func (p Price) String() string {
	switch {
	case !p.set:
		return ""
	case p.numeric:
		return p.amount.String()
	default:
		return p.raw
	}
}

// Display renders the price followed by the currency symbol.
func (p Price) Display(currency string) string {
	return strings.TrimSpace(p.String() + " " + currency)
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = Price{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decode price string")
		}
		*p = ParsePrice(s)
		return nil
	}

	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return errors.Wrapf(err, "decode price %s", data)
	}
	*p = NewPrice(d)
	return nil
}
