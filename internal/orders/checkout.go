package orders

import "math"

// Checkout policy constants. Fixed business policy, not configuration.
const (
	FreeShippingThreshold = 50000
	ShippingFlatFee       = 500
	TaxRate               = 0.03
)

// CheckoutCharges is the breakdown of what a cart costs at checkout.
type CheckoutCharges struct {
	Subtotal   float64 `json:"subtotal"`
	Shipping   float64 `json:"shipping"`
	Tax        float64 `json:"tax"`
	GrandTotal float64 `json:"grandTotal"`
}

// ComputeCharges derives shipping and tax from a cart subtotal. Shipping is
// free strictly above the threshold, otherwise a flat fee. Tax rounds to the
// nearest whole currency unit (ties away from zero) before being added.
func ComputeCharges(subtotal float64) CheckoutCharges {
	shipping := float64(ShippingFlatFee)
	if subtotal > FreeShippingThreshold {
		shipping = 0
	}
	tax := math.Round(subtotal * TaxRate)

	return CheckoutCharges{
		Subtotal:   subtotal,
		Shipping:   shipping,
		Tax:        tax,
		GrandTotal: subtotal + shipping + tax,
	}
}
