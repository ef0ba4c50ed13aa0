package handlers

import (
	"testing"
	"time"

	"sjsilvers-api/internal/orders"
)

func TestOrderPlacedEventUsesOrderTimestamps(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	order := orders.Order{
		ID:          "o1",
		UserID:      "u1",
		TotalAmount: 87000,
		Items: []orders.OrderItem{
			{ProductID: "p1", Quantity: 2, Price: 43500},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}

	ev := orderPlacedEvent(order)
	if ev.OrderID != "o1" || ev.UserID != "u1" {
		t.Errorf("event identifiers = (%s, %s), want (o1, u1)", ev.OrderID, ev.UserID)
	}
	if ev.TotalAmount != 87000 {
		t.Errorf("TotalAmount = %v, want 87000", ev.TotalAmount)
	}
	if ev.ItemCount != 1 {
		t.Errorf("ItemCount = %d, want 1", ev.ItemCount)
	}
	if !ev.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want the order's creation time %v", ev.CreatedAt, created)
	}
}

func TestOrderStatusEventUsesOrderUpdateTime(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	updated := created.Add(48 * time.Hour)
	order := orders.Order{
		ID:        "o1",
		UserID:    "u1",
		Status:    orders.StatusShipped,
		CreatedAt: created,
		UpdatedAt: updated,
	}

	ev := orderStatusEvent(order)
	if ev.Status != string(orders.StatusShipped) {
		t.Errorf("Status = %q, want %q", ev.Status, orders.StatusShipped)
	}
	if !ev.CreatedAt.Equal(updated) {
		t.Errorf("CreatedAt = %v, want the status change time %v", ev.CreatedAt, updated)
	}
}
