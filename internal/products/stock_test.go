package products

import (
	"errors"
	"testing"
)

func TestCheckStock(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		requested int
		wantErr   bool
	}{
		{"requested below stock", 10, 3, false},
		{"requested equals stock", 5, 5, false},
		{"requested exceeds stock", 3, 5, true},
		{"zero stock", 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{ID: "p1", Stock: tt.stock}
			err := p.CheckStock(tt.requested)
			if tt.wantErr {
				if !errors.Is(err, ErrInsufficientStock) {
					t.Errorf("CheckStock(%d) with stock %d = %v, want ErrInsufficientStock",
						tt.requested, tt.stock, err)
				}
				return
			}
			if err != nil {
				t.Errorf("CheckStock(%d) with stock %d = %v, want nil", tt.requested, tt.stock, err)
			}
		})
	}
}
