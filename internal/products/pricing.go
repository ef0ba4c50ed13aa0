package products

// EffectivePrice computes the selling price of one unit:
//
//	(basePrice + makingCharges) - (basePrice * discountPercent / 100)
//
// The discount applies to the base metal price only, never to making
// charges. No rounding happens here; display rounding is a presentation
// concern. Catalog responses and cart price snapshots must both go through
// this function so displayed and stored prices cannot drift.
func EffectivePrice(basePrice, makingCharges, discountPercent float64) float64 {
	return (basePrice + makingCharges) - (basePrice * discountPercent / 100)
}

// WithPrice fills the derived Price field on a product.
func (p Product) WithPrice() Product {
	p.Price = EffectivePrice(p.BasePrice, p.MakingCharges, p.DiscountPercent)
	return p
}
