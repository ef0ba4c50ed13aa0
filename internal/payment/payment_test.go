package payment

import (
	"context"
	"strings"
	"testing"
)

func TestSimulatedCreateOrder(t *testing.T) {
	g := NewSimulated()

	ref, err := g.CreateOrder(context.Background(), 41700)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if !strings.HasPrefix(ref.OrderID, "order_demo_") {
		t.Errorf("reference id = %q, want order_demo_ prefix", ref.OrderID)
	}
	if ref.Amount != 41700 {
		t.Errorf("amount = %v, want 41700", ref.Amount)
	}
	if ref.Currency != "INR" {
		t.Errorf("currency = %q, want INR", ref.Currency)
	}
}

func TestSimulatedCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	g := NewSimulated()
	for _, amount := range []float64{0, -100} {
		if _, err := g.CreateOrder(context.Background(), amount); err == nil {
			t.Errorf("CreateOrder(%v) should fail", amount)
		}
	}
}

func TestSimulatedVerify(t *testing.T) {
	g := NewSimulated()

	ok, err := g.Verify(context.Background(), "order_demo_1", "pay_demo", "sig_demo")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Error("complete verification triple should be accepted")
	}

	ok, err = g.Verify(context.Background(), "order_demo_1", "", "sig_demo")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Error("missing payment id should be rejected")
	}
}
