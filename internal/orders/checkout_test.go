package orders

import "testing"

func TestComputeCharges(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		shipping float64
		tax      float64
		grand    float64
	}{
		{"below free shipping threshold", 40000, 500, 1200, 41700},
		{"above free shipping threshold", 60000, 0, 1800, 61800},
		{"exactly at threshold still pays shipping", 50000, 500, 1500, 52000},
		{"tax rounds to whole unit", 33333, 500, 1000, 34833},
		{"empty cart", 0, 500, 0, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeCharges(tt.subtotal)
			if got.Shipping != tt.shipping {
				t.Errorf("shipping = %v, want %v", got.Shipping, tt.shipping)
			}
			if got.Tax != tt.tax {
				t.Errorf("tax = %v, want %v", got.Tax, tt.tax)
			}
			if got.GrandTotal != tt.grand {
				t.Errorf("grand total = %v, want %v", got.GrandTotal, tt.grand)
			}
			if got.Subtotal != tt.subtotal {
				t.Errorf("subtotal = %v, want %v", got.Subtotal, tt.subtotal)
			}
		})
	}
}
