package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"sjsilvers-api/internal/payment"
)

func newPaymentTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(Conf{Gateway: payment.NewSimulated()})
	r := gin.New()
	r.POST("/payment/verify", h.VerifyPayment)
	return r
}

func TestVerifyPaymentRequiresOrderID(t *testing.T) {
	r := newPaymentTestRouter()

	body := `{"orderId": "", "razorpay_order_id": "order_demo_1",
		"razorpay_payment_id": "pay_1", "razorpay_signature": "sig"}`
	req := httptest.NewRequest(http.MethodPost, "/payment/verify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d for missing order id", w.Code, http.StatusBadRequest)
	}
}

func TestVerifyPaymentRejectsIncompleteSignature(t *testing.T) {
	r := newPaymentTestRouter()

	body := `{"orderId": "o1", "razorpay_order_id": "order_demo_1",
		"razorpay_payment_id": "pay_1", "razorpay_signature": ""}`
	req := httptest.NewRequest(http.MethodPost, "/payment/verify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d for incomplete payment details", w.Code, http.StatusBadRequest)
	}
}
