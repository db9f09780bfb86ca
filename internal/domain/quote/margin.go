package quote

import (
	"math"

	"github.com/shopspring/decimal"
)

type MarginKind string

const (
	// MarginPercent marks up the cost by a percentage.
	MarginPercent MarginKind = "percent"
	// MarginFixed adds a fixed currency amount to the cost.
	MarginFixed MarginKind = "fixed"
)

// Margin is the markup applied to a line's cost. Exactly one representation
// applies per line, enforced by the kind tag.
type Margin struct {
	Kind  MarginKind `json:"kind"`
	Value float64    `json:"value"`
}

// MarginFromFields maps the legacy two-field wire shape (marginPercent,
// marginPln) onto the tagged form. A nonzero fixed amount is authoritative,
// otherwise the percentage applies.
func MarginFromFields(percent, fixed float64) Margin {
	if coerce(fixed) != 0 {
		return Margin{Kind: MarginFixed, Value: coerce(fixed)}
	}
	return Margin{Kind: MarginPercent, Value: coerce(percent)}
}

// Fields renders the margin back into the two-field wire shape.
func (m Margin) Fields() (percent, fixed float64) {
	if m.Kind == MarginFixed {
		return 0, m.Value
	}
	return m.Value, 0
}

// Apply adjusts a cost by the margin.
func (m Margin) Apply(cost decimal.Decimal) decimal.Decimal {
	value := decimal.NewFromFloat(coerce(m.Value))
	if m.Kind == MarginFixed {
		return cost.Add(value)
	}
	return cost.Mul(decimal.NewFromInt(100).Add(value)).Div(decimal.NewFromInt(100))
}

func coerce(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
