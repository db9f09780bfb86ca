package quote

import "github.com/shopspring/decimal"

var sixty = decimal.NewFromInt(60)

// MaterialUnitPrice is the margin-adjusted purchase price of one unit.
func MaterialUnitPrice(m Material) decimal.Decimal {
	return m.Margin.Apply(decimal.NewFromFloat(coerce(m.PurchasePrice)))
}

// ActivityUnitPrice is the margin-adjusted cost of performing the activity
// once: work time in decimal hours multiplied by the hourly rate.
func ActivityUnitPrice(a Activity) decimal.Decimal {
	workTime := decimal.NewFromFloat(coerce(a.WorkTimeHours)).
		Add(decimal.NewFromFloat(coerce(a.WorkTimeMinutes)).Div(sixty))
	return a.Margin.Apply(workTime.Mul(decimal.NewFromFloat(coerce(a.Price))))
}

// billedQuantity applies the minimum-order floor: exempt lines bill exactly
// their own quantity, all others bill at least minQuantity.
func billedQuantity(quantity, minQuantity float64, exempt bool) decimal.Decimal {
	quantity = coerce(quantity)
	if !exempt && coerce(minQuantity) > quantity {
		quantity = coerce(minQuantity)
	}
	return decimal.NewFromFloat(quantity)
}

// PriceQuote computes per-line and total priced amounts for a quote. It is
// a pure function of its input and never fails: malformed numeric inputs
// are coerced to zero first.
func PriceQuote(q Quote) Pricing {
	pricing := Pricing{}
	total := decimal.Zero

	for _, m := range q.Materials {
		unit := MaterialUnitPrice(m)
		qty := billedQuantity(m.Quantity, q.MinQuantity, m.IgnoreMinQuantity)
		lineTotal := unit.Mul(qty)
		pricing.Materials = append(pricing.Materials, LinePrice{
			Name:           m.Name,
			UnitPrice:      unit.InexactFloat64(),
			BilledQuantity: qty.InexactFloat64(),
			Total:          lineTotal.InexactFloat64(),
		})
		total = total.Add(lineTotal)
	}

	for _, a := range q.Activities {
		unit := ActivityUnitPrice(a)
		// An activity has no quantity of its own: exempt lines bill the
		// unit cost once, the rest bill per unit of the minimum order.
		qty := billedQuantity(1, q.MinQuantity, a.IgnoreMinQuantity)
		lineTotal := unit.Mul(qty)
		pricing.Activities = append(pricing.Activities, LinePrice{
			Name:           a.Name,
			UnitPrice:      unit.InexactFloat64(),
			BilledQuantity: qty.InexactFloat64(),
			Total:          lineTotal.InexactFloat64(),
		})
		total = total.Add(lineTotal)
	}

	pricing.Total = total.InexactFloat64()
	return pricing
}
