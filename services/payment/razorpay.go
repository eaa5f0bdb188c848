package paysvc

import (
	"context"

	"github.com/pkg/errors"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/payment"
)

// razorpayService implements the order/verify collaborator contracts on top
// of the Razorpay REST API.
type razorpayService struct {
	client *razorpay.Client
	secret string
	logger core.Logger
}

var (
	_ payment.OrderService        = (*razorpayService)(nil)
	_ payment.VerificationService = (*razorpayService)(nil)
)

func NewRazorpayService(conf *core.Config, logger core.Logger) *razorpayService {
	return &razorpayService{
		client: razorpay.NewClient(conf.Razorpay.APIKey, conf.Razorpay.APISecret),
		secret: conf.Razorpay.APISecret,
		logger: logger,
	}
}

func (svc razorpayService) CreateOrder(ctx context.Context, amount int, currency string) (payment.Order, error) {
	// Razorpay amounts are in paise
	data := map[string]interface{}{
		"amount":          amount * 100,
		"currency":        currency,
		"payment_capture": 1,
	}
	body, err := svc.client.Order.Create(data, nil)
	if err != nil {
		return payment.Order{}, errors.Wrap(payment.ErrProviderUnavailable, err.Error())
	}
	id, _ := body["id"].(string)
	if id == "" {
		return payment.Order{}, errors.Wrap(payment.ErrProviderUnavailable, "order id missing in provider response")
	}
	return payment.Order{ID: id, Amount: amount, Currency: currency}, nil
}

// VerifyPayment recomputes the payment signature from the order and payment
// ids; the amount stored on the provider order is authoritative.
func (svc razorpayService) VerifyPayment(ctx context.Context, v payment.Verification) error {
	params := map[string]interface{}{
		"razorpay_order_id":   v.OrderID,
		"razorpay_payment_id": v.PaymentID,
		"razorpay_signature":  v.Signature,
	}
	if !utils.VerifyPaymentSignature(params, svc.secret) {
		return payment.ErrVerificationFailed
	}
	return nil
}
