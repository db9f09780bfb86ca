package quote

import (
	"math"
	"testing"
)

func approx(t *testing.T, label string, got, expected float64) {
	t.Helper()
	if math.Abs(got-expected) > 1e-9 {
		t.Fatalf("%s: expected %v, got %v", label, expected, got)
	}
}

func TestMaterialLineWithMinQuantityFloor(t *testing.T) {
	q := Quote{
		MinQuantity: 10,
		Materials: []Material{{
			Name:          "steel sheet",
			PurchasePrice: 100,
			Margin:        Margin{Kind: MarginPercent, Value: 20},
			Quantity:      5,
		}},
	}

	pricing := PriceQuote(q)
	line := pricing.Materials[0]
	approx(t, "unit price", line.UnitPrice, 120)
	approx(t, "billed quantity", line.BilledQuantity, 10)
	approx(t, "line total", line.Total, 1200)
	approx(t, "quote total", pricing.Total, 1200)
}

func TestMaterialLineExemptFromFloor(t *testing.T) {
	q := Quote{
		MinQuantity: 10,
		Materials: []Material{{
			PurchasePrice:     100,
			Margin:            Margin{Kind: MarginPercent, Value: 20},
			Quantity:          5,
			IgnoreMinQuantity: true,
		}},
	}

	pricing := PriceQuote(q)
	approx(t, "billed quantity", pricing.Materials[0].BilledQuantity, 5)
	approx(t, "line total", pricing.Materials[0].Total, 600)
}

func TestFixedMarginAddsDirectly(t *testing.T) {
	q := Quote{
		Materials: []Material{{
			PurchasePrice: 80,
			Margin:        Margin{Kind: MarginFixed, Value: 15},
			Quantity:      2,
		}},
	}

	pricing := PriceQuote(q)
	approx(t, "unit price", pricing.Materials[0].UnitPrice, 95)
	approx(t, "line total", pricing.Materials[0].Total, 190)
}

func TestActivityLinePricing(t *testing.T) {
	q := Quote{
		MinQuantity: 4,
		Activities: []Activity{{
			Name:            "welding",
			WorkTimeHours:   1,
			WorkTimeMinutes: 30,
			Price:           60,
			Margin:          Margin{Kind: MarginPercent, Value: 10},
		}},
	}

	pricing := PriceQuote(q)
	line := pricing.Activities[0]
	// 1.5h * 60 = 90, +10% = 99, billed for the 4-unit minimum.
	approx(t, "unit price", line.UnitPrice, 99)
	approx(t, "billed quantity", line.BilledQuantity, 4)
	approx(t, "line total", line.Total, 396)
}

func TestActivityExemptBillsUnitCostOnce(t *testing.T) {
	q := Quote{
		MinQuantity: 50,
		Activities: []Activity{{
			WorkTimeHours:     2,
			Price:             100,
			Margin:            Margin{Kind: MarginFixed, Value: 20},
			IgnoreMinQuantity: true,
		}},
	}

	pricing := PriceQuote(q)
	approx(t, "billed quantity", pricing.Activities[0].BilledQuantity, 1)
	approx(t, "line total", pricing.Activities[0].Total, 220)
}

func TestQuoteTotalSumsAllLines(t *testing.T) {
	q := Quote{
		MinQuantity: 10,
		Materials: []Material{
			{PurchasePrice: 100, Margin: Margin{Kind: MarginPercent, Value: 20}, Quantity: 5},
			{PurchasePrice: 10, Margin: Margin{Kind: MarginFixed, Value: 2}, Quantity: 20, IgnoreMinQuantity: true},
		},
		Activities: []Activity{
			{WorkTimeHours: 1, Price: 50, Margin: Margin{Kind: MarginPercent, Value: 0}},
		},
	}

	pricing := PriceQuote(q)
	// 1200 + 240 + 500
	approx(t, "quote total", pricing.Total, 1940)
}

func TestPricingCoercesBadInputs(t *testing.T) {
	q := Quote{
		Materials: []Material{{
			PurchasePrice: math.NaN(),
			Margin:        Margin{Kind: MarginPercent, Value: math.Inf(1)},
			Quantity:      3,
		}},
	}

	pricing := PriceQuote(q)
	approx(t, "line total", pricing.Materials[0].Total, 0)
	approx(t, "quote total", pricing.Total, 0)
}

func TestMarginFromFields(t *testing.T) {
	if m := MarginFromFields(20, 0); m.Kind != MarginPercent || m.Value != 20 {
		t.Fatalf("expected percent margin, got %+v", m)
	}
	if m := MarginFromFields(20, 15); m.Kind != MarginFixed || m.Value != 15 {
		t.Fatalf("expected fixed margin to win, got %+v", m)
	}

	percent, fixed := Margin{Kind: MarginFixed, Value: 15}.Fields()
	if percent != 0 || fixed != 15 {
		t.Fatalf("expected (0, 15), got (%v, %v)", percent, fixed)
	}
}
