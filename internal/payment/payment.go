// Package payment defines the gateway boundary. The real gateway is an
// external collaborator; the API only ever talks to the Gateway interface.
package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Reference identifies a payment order created at the gateway.
type Reference struct {
	OrderID  string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Gateway is the payment collaborator surface: create a payment order for
// an amount, then verify a completed payment by reference and signature.
type Gateway interface {
	CreateOrder(ctx context.Context, amount float64) (Reference, error)
	Verify(ctx context.Context, orderRef, paymentID, signature string) (bool, error)
}

// Simulated is the demo gateway: it issues references locally and accepts
// any non-empty verification triple. It stands in for a Razorpay-style
// collaborator during development.
type Simulated struct {
	Currency string
}

func NewSimulated() *Simulated {
	return &Simulated{Currency: "INR"}
}

func (s *Simulated) CreateOrder(ctx context.Context, amount float64) (Reference, error) {
	if amount <= 0 {
		return Reference{}, fmt.Errorf("amount must be positive, got %v", amount)
	}
	return Reference{
		OrderID:  "order_demo_" + uuid.NewString(),
		Amount:   amount,
		Currency: s.Currency,
	}, nil
}

func (s *Simulated) Verify(ctx context.Context, orderRef, paymentID, signature string) (bool, error) {
	if orderRef == "" || paymentID == "" || signature == "" {
		return false, nil
	}
	return true, nil
}
