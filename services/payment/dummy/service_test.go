package dummypay

import (
	"context"
	"testing"

	"github.com/trezcool/academia/core/payment"
)

func TestService(t *testing.T) {
	svc := NewService("secret")
	ctx := context.Background()

	ord, err := svc.CreateOrder(ctx, 500, "INR")
	if err != nil {
		t.Fatalf("CreateOrder() failed, %v", err)
	}
	if ord.Amount != 500 || ord.Currency != "INR" || ord.ID == "" {
		t.Errorf("CreateOrder() = %+v", ord)
	}

	tests := []struct {
		name    string
		v       payment.Verification
		wantErr error
	}{
		{
			name: "valid signature",
			v:    payment.Verification{OrderID: ord.ID, PaymentID: "pay_1", Signature: svc.Sign(ord.ID, "pay_1")},
		},
		{
			name:    "wrong signature",
			v:       payment.Verification{OrderID: ord.ID, PaymentID: "pay_1", Signature: "lol"},
			wantErr: payment.ErrVerificationFailed,
		},
		{
			name:    "signature for another payment",
			v:       payment.Verification{OrderID: ord.ID, PaymentID: "pay_2", Signature: svc.Sign(ord.ID, "pay_1")},
			wantErr: payment.ErrVerificationFailed,
		},
		{
			name:    "unknown order",
			v:       payment.Verification{OrderID: "order_lol", PaymentID: "pay_1", Signature: svc.Sign("order_lol", "pay_1")},
			wantErr: payment.ErrVerificationFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.VerifyPayment(ctx, tt.v); err != tt.wantErr {
				t.Errorf("VerifyPayment() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
