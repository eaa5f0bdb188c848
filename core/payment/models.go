package payment

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/academia/core/registration"
)

var (
	// errors
	ErrFeeNotConfigured    = errors.New("fee not configured for this action")
	ErrOrderCreation       = errors.New("payment order could not be created")
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	ErrVerificationFailed  = errors.New("payment verification failed")
	ErrDuplicateAttempt    = errors.New("a payment for this action is already in progress")
	ErrUnknownOrder        = errors.New("unknown payment order")
)

// Action is the logical operation a payment is attached to.
type Action string

const (
	ActionSemesterPurchase    Action = "semester-purchase"
	ActionChallengeValuation  Action = "challenge-valuation"
	ActionReregisterFailed    Action = "reregister-failed"
	ActionReregisterWithdrawn Action = "reregister-withdrawn"
)

// ledgerAction maps a paid action onto the eligibility action it must be
// covered by. Semester purchase is not gated on a graded record.
func (a Action) ledgerAction() (registration.Action, bool) {
	switch a {
	case ActionChallengeValuation:
		return registration.ActionChallengeValuation, true
	case ActionReregisterFailed:
		return registration.ActionReregisterFailed, true
	case ActionReregisterWithdrawn:
		return registration.ActionReregisterWithdrawn, true
	}
	return "", false
}

func (a Action) valid() bool {
	switch a {
	case ActionSemesterPurchase, ActionChallengeValuation, ActionReregisterFailed, ActionReregisterWithdrawn:
		return true
	}
	return false
}

// State of one paid-transition attempt.
type State int

const (
	StateIdle State = iota
	StateOrderRequested
	StateAwaitingCallback
	StateVerifying
	StateCommitted
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:             "Idle",
	StateOrderRequested:   "OrderRequested",
	StateAwaitingCallback: "AwaitingProviderCallback",
	StateVerifying:        "Verifying",
	StateCommitted:        "Committed",
	StateFailed:           "Failed",
}

func (s State) String() string { return stateNames[s] }

// Terminal reports whether no further transition can happen from s.
func (s State) Terminal() bool { return s == StateCommitted || s == StateFailed }

// Order is the ephemeral provider-side order; it exists between creation and
// verification and is consumed exactly once.
type Order struct {
	ID       string `json:"id"`
	Amount   int    `json:"amount"` // whole rupees
	Currency string `json:"currency"`
}

type (
	// OrderService creates provider orders.
	OrderService interface {
		// CreateOrder registers an order for amount (whole rupees) with the
		// provider. Fails with ErrProviderUnavailable.
		CreateOrder(ctx context.Context, amount int, currency string) (Order, error)
	}

	// VerificationService checks the provider's signed callback. The stored
	// order is authoritative; amounts declared by the client are never trusted.
	VerificationService interface {
		// VerifyPayment returns ErrVerificationFailed when the signature does not
		// match; any other error is a transport failure.
		VerifyPayment(ctx context.Context, v Verification) error
	}
)

// Verification is the provider callback payload.
type Verification struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

// Receipt is the durable trace of a committed payment.
type Receipt struct {
	ID        string    `json:"id" db:"id"`
	StudentID string    `json:"student_id" db:"student_id"`
	SubjectID string    `json:"subject_id,omitempty" db:"subject_id"`
	Semester  int       `json:"semester" db:"semester"`
	Action    Action    `json:"action" db:"action"`
	OrderID   string    `json:"order_id" db:"order_id"`
	PaymentID string    `json:"payment_id" db:"payment_id"`
	Amount    int       `json:"amount" db:"amount"`
	Currency  string    `json:"currency" db:"currency"`
	FacultyID string    `json:"faculty_id,omitempty" db:"faculty_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

type Repository interface {
	SaveReceipt(ctx context.Context, r Receipt) (Receipt, error)
	// ListStudentReceipts returns the student's receipts, newest first.
	ListStudentReceipts(ctx context.Context, studentID string) ([]Receipt, error)
	// ListReceipts returns all receipts, newest first.
	ListReceipts(ctx context.Context) ([]Receipt, error)
}
