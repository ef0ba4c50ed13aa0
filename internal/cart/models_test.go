package cart

import (
	"errors"
	"testing"

	"sjsilvers-api/internal/products"
)

func checkTotal(t *testing.T, c *Cart) {
	t.Helper()
	var want float64
	for _, item := range c.Items {
		want += float64(item.Quantity) * item.Price
	}
	if c.TotalAmount != want {
		t.Errorf("TotalAmount = %v, want %v (sum of item subtotals)", c.TotalAmount, want)
	}
}

func TestUpsertAppendsNewLine(t *testing.T) {
	c := Cart{UserID: "u1"}
	c.Upsert(CartItem{ProductID: "p1", Quantity: 2, Price: 90000, Name: "Classic Gold Chain"})

	if len(c.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(c.Items))
	}
	if c.TotalAmount != 180000 {
		t.Errorf("TotalAmount = %v, want 180000", c.TotalAmount)
	}
	checkTotal(t, &c)
}

func TestUpsertMergesSameProduct(t *testing.T) {
	c := Cart{UserID: "u1"}
	c.Upsert(CartItem{ProductID: "p1", Quantity: 2, Price: 100})
	c.Upsert(CartItem{ProductID: "p1", Quantity: 3, Price: 100})

	if len(c.Items) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", c.Items[0].Quantity)
	}
	checkTotal(t, &c)
}

func TestUpsertRefreshesPriceSnapshot(t *testing.T) {
	c := Cart{UserID: "u1"}
	c.Upsert(CartItem{ProductID: "p1", Quantity: 1, Price: 100})
	c.Upsert(CartItem{ProductID: "p1", Quantity: 1, Price: 120})

	if c.Items[0].Price != 120 {
		t.Errorf("price = %v, want refreshed snapshot 120", c.Items[0].Price)
	}
	if c.TotalAmount != 240 {
		t.Errorf("TotalAmount = %v, want 240", c.TotalAmount)
	}
}

func TestSetQuantityIsAbsolute(t *testing.T) {
	c := Cart{UserID: "u1"}
	c.Upsert(CartItem{ProductID: "p1", Quantity: 5, Price: 100})

	if !c.SetQuantity("p1", 2) {
		t.Fatal("SetQuantity should find the line")
	}
	if c.Items[0].Quantity != 2 {
		t.Errorf("quantity = %d, want absolute set to 2", c.Items[0].Quantity)
	}
	checkTotal(t, &c)
}

func TestSetQuantityDoesNotRefreshPrice(t *testing.T) {
	c := Cart{UserID: "u1"}
	c.Upsert(CartItem{ProductID: "p1", Quantity: 1, Price: 100})

	c.SetQuantity("p1", 3)
	if c.Items[0].Price != 100 {
		t.Errorf("price = %v, update must not re-snapshot the price", c.Items[0].Price)
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	c := Cart{UserID: "u1"}
	c.Upsert(CartItem{ProductID: "p1", Quantity: 2, Price: 100})
	c.Upsert(CartItem{ProductID: "p2", Quantity: 1, Price: 50})

	if !c.SetQuantity("p1", 0) {
		t.Fatal("SetQuantity should find the line")
	}
	if len(c.Items) != 1 {
		t.Fatalf("expected line removed, got %d items", len(c.Items))
	}
	if c.Items[0].ProductID != "p2" {
		t.Errorf("wrong line removed")
	}
	checkTotal(t, &c)
}

func TestSetQuantityMissingProduct(t *testing.T) {
	c := Cart{UserID: "u1"}
	c.Upsert(CartItem{ProductID: "p1", Quantity: 1, Price: 100})

	if c.SetQuantity("missing", 2) {
		t.Error("SetQuantity should report a missing line")
	}
	if len(c.Items) != 1 || c.TotalAmount != 100 {
		t.Error("cart must be left unchanged")
	}
}

func TestRemove(t *testing.T) {
	c := Cart{UserID: "u1"}
	c.Upsert(CartItem{ProductID: "p1", Quantity: 2, Price: 100})
	c.Upsert(CartItem{ProductID: "p2", Quantity: 1, Price: 50})

	c.Remove("p1")
	if len(c.Items) != 1 {
		t.Fatalf("expected 1 item after remove, got %d", len(c.Items))
	}
	if c.TotalAmount != 50 {
		t.Errorf("TotalAmount = %v, want 50", c.TotalAmount)
	}

	// removing an absent product is a no-op
	c.Remove("missing")
	if len(c.Items) != 1 || c.TotalAmount != 50 {
		t.Error("removing an absent product must not change the cart")
	}
}

func TestClear(t *testing.T) {
	c := Cart{UserID: "u1"}
	c.Upsert(CartItem{ProductID: "p1", Quantity: 2, Price: 100})

	c.Clear()
	if len(c.Items) != 0 {
		t.Errorf("expected empty cart, got %d items", len(c.Items))
	}
	if c.TotalAmount != 0 {
		t.Errorf("TotalAmount = %v, want 0", c.TotalAmount)
	}
}

// An add request gated on the stock check never touches the cart when the
// requested quantity exceeds available stock.
func TestOverStockAddLeavesCartUnchanged(t *testing.T) {
	c := Cart{UserID: "u1"}
	c.Upsert(CartItem{ProductID: "p1", Quantity: 2, Price: 43500})

	p := products.Product{ID: "p2", Stock: 3}
	err := p.CheckStock(5)
	if !errors.Is(err, products.ErrInsufficientStock) {
		t.Fatalf("CheckStock(5) with stock 3 = %v, want ErrInsufficientStock", err)
	}
	// the handler returns before Upsert on a failed stock check
	if len(c.Items) != 1 || c.Items[0].Quantity != 2 || c.TotalAmount != 87000 {
		t.Error("cart must be left unchanged after a rejected add")
	}
	checkTotal(t, &c)
}

func TestTotalInvariantAcrossMutations(t *testing.T) {
	c := Cart{UserID: "u1"}
	c.Upsert(CartItem{ProductID: "p1", Quantity: 2, Price: 43500})
	checkTotal(t, &c)
	c.Upsert(CartItem{ProductID: "p2", Quantity: 1, Price: 9500})
	checkTotal(t, &c)
	c.Upsert(CartItem{ProductID: "p1", Quantity: 3, Price: 43500})
	checkTotal(t, &c)
	c.SetQuantity("p2", 4)
	checkTotal(t, &c)
	c.Remove("p1")
	checkTotal(t, &c)
	c.Clear()
	checkTotal(t, &c)
}
