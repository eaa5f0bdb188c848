package dummypay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core/payment"
)

// Service fakes the payment provider for DEV and tests: orders are minted
// locally and a callback verifies iff its signature matches Sign().
type Service struct {
	secret string

	mu     sync.Mutex
	orders map[string]payment.Order
}

var (
	_ payment.OrderService        = (*Service)(nil)
	_ payment.VerificationService = (*Service)(nil)
)

func NewService(secret string) *Service {
	return &Service{
		secret: secret,
		orders: make(map[string]payment.Order),
	}
}

func (svc *Service) CreateOrder(ctx context.Context, amount int, currency string) (payment.Order, error) {
	id := "order_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:14]
	ord := payment.Order{ID: id, Amount: amount, Currency: currency}
	svc.mu.Lock()
	svc.orders[id] = ord
	svc.mu.Unlock()
	return ord, nil
}

func (svc *Service) VerifyPayment(ctx context.Context, v payment.Verification) error {
	svc.mu.Lock()
	_, known := svc.orders[v.OrderID]
	svc.mu.Unlock()
	if !known || !hmac.Equal([]byte(v.Signature), []byte(svc.Sign(v.OrderID, v.PaymentID))) {
		return payment.ErrVerificationFailed
	}
	return nil
}

// Sign computes the signature the fake provider expects, so dev tooling can
// craft valid callbacks.
func (svc *Service) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(svc.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
