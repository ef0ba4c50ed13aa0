package products

import "testing"

func TestEffectivePrice(t *testing.T) {
	tests := []struct {
		name            string
		basePrice       float64
		makingCharges   float64
		discountPercent float64
		want            float64
	}{
		{"no discount", 85000, 5000, 0, 90000},
		{"ten percent off base", 45000, 3000, 10, 43500},
		{"full discount leaves making charges", 8500, 1000, 100, 1000},
		{"zero making charges", 10000, 0, 25, 7500},
		{"fractional discount", 1000, 100, 2.5, 1075},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectivePrice(tt.basePrice, tt.makingCharges, tt.discountPercent)
			if got != tt.want {
				t.Errorf("EffectivePrice(%v, %v, %v) = %v, want %v",
					tt.basePrice, tt.makingCharges, tt.discountPercent, got, tt.want)
			}
		})
	}
}

func TestEffectivePriceNeverExceedsListPrice(t *testing.T) {
	cases := []struct{ base, making, discount float64 }{
		{85000, 5000, 0},
		{45000, 3000, 10},
		{8500, 1000, 50},
		{100, 0, 100},
	}

	for _, c := range cases {
		got := EffectivePrice(c.base, c.making, c.discount)
		list := c.base + c.making
		if got > list {
			t.Errorf("EffectivePrice(%v, %v, %v) = %v exceeds list price %v",
				c.base, c.making, c.discount, got, list)
		}
		if c.discount == 0 && got != list {
			t.Errorf("EffectivePrice with zero discount = %v, want list price %v", got, list)
		}
	}
}

func TestWithPrice(t *testing.T) {
	p := Product{BasePrice: 45000, MakingCharges: 3000, DiscountPercent: 10}
	if got := p.WithPrice().Price; got != 43500 {
		t.Errorf("WithPrice().Price = %v, want 43500", got)
	}
}
