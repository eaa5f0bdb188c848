package payment

import (
	"context"
	"fmt"
	"net/mail"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/faculty"
	"github.com/trezcool/academia/core/registration"
	"github.com/trezcool/academia/core/student"
)

// Intent is a student's request to start a paid transition.
type Intent struct {
	Action    Action `json:"action"`
	StudentID string `json:"student_id"`
	SubjectID string `json:"subject_id,omitempty"` // empty for semester purchase
	Semester  int    `json:"semester"`
	FacultyID string `json:"faculty_id,omitempty"` // required for reregister-withdrawn
}

// Workflow is one attempt at a paid transition. It is created in
// OrderRequested, armed on order creation and settled exactly once by the
// provider callback. A Failed or Committed workflow is never revived; a new
// attempt starts a fresh one with a new order.
type Workflow struct {
	mu       sync.Mutex
	state    State
	intent   Intent
	amount   int
	order    Order
	baseline registration.Grade // original grade, challenge valuation only
	std      student.Student
	err      error
}

func (wf *Workflow) State() State {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	return wf.state
}

func (wf *Workflow) Order() Order {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	return wf.order
}

func (wf *Workflow) Amount() int {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	return wf.amount
}

func (wf *Workflow) Intent() Intent {
	return wf.intent
}

func (wf *Workflow) Err() error {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	return wf.err
}

// Service drives the three-step paid-transition protocol: create order →
// provider collects payment → verify signature → commit exactly one ledger
// mutation. It is the only writer path into the registration ledger besides
// admin grade entry.
type Service struct {
	repo       Repository
	orders     OrderService
	verifier   VerificationService
	catalogSvc *catalog.Service
	regSvc     *registration.Service
	facultySvc *faculty.Service
	studentSvc *student.Service
	mailSvc    core.EmailService
	conf       *core.Config
	log        core.Logger

	mu      sync.Mutex
	flows   map[string]*Workflow // by intent key; latest attempt wins
	byOrder map[string]*Workflow // settled flows stay so replays are absorbed
}

func NewService(
	repo Repository,
	orders OrderService,
	verifier VerificationService,
	catalogSvc *catalog.Service,
	regSvc *registration.Service,
	facultySvc *faculty.Service,
	studentSvc *student.Service,
	mailSvc core.EmailService,
	conf *core.Config,
	log core.Logger,
) *Service {
	return &Service{
		repo:       repo,
		orders:     orders,
		verifier:   verifier,
		catalogSvc: catalogSvc,
		regSvc:     regSvc,
		facultySvc: facultySvc,
		studentSvc: studentSvc,
		mailSvc:    mailSvc,
		conf:       conf,
		log:        log,
		flows:      make(map[string]*Workflow),
		byOrder:    make(map[string]*Workflow),
	}
}

func flowKey(in Intent) string {
	if in.Action == ActionSemesterPurchase {
		return fmt.Sprintf("%s|semester-%d|%s", in.StudentID, in.Semester, in.Action)
	}
	return fmt.Sprintf("%s|%s|%s", in.StudentID, in.SubjectID, in.Action)
}

func (svc *Service) validateIntent(in Intent) error {
	var flds []core.FieldError
	if !in.Action.valid() {
		flds = append(flds, core.FieldError{Field: "action", Error: "unknown action"})
	}
	if in.StudentID == "" {
		flds = append(flds, core.FieldError{Field: "student_id", Error: "this field is required"})
	}
	if in.Semester <= 0 {
		flds = append(flds, core.FieldError{Field: "semester", Error: "this field is required"})
	}
	if in.Action != ActionSemesterPurchase && in.SubjectID == "" {
		flds = append(flds, core.FieldError{Field: "subject_id", Error: "this field is required"})
	}
	// the subject must be re-taught; a faculty assignment is mandatory
	if in.Action == ActionReregisterWithdrawn && in.FacultyID == "" {
		flds = append(flds, core.FieldError{Field: "faculty_id", Error: "a faculty must be selected for re-registration"})
	}
	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

// Begin checks eligibility authoritatively, resolves the fee from the catalog
// and creates the provider order. On success the returned workflow sits in
// AwaitingProviderCallback until HandleCallback settles it; an abandoned
// checkout simply stays there and never touches the ledger.
//
// Order creation failures are not retried here: the student must re-initiate
// explicitly, otherwise a flaky provider could be double-charged.
func (svc *Service) Begin(ctx context.Context, in Intent) (*Workflow, error) {
	if err := svc.validateIntent(in); err != nil {
		return nil, err
	}

	std, err := svc.studentSvc.GetByID(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}

	wf := &Workflow{state: StateOrderRequested, intent: in, std: std}

	if in.Action == ActionSemesterPurchase {
		wf.amount, err = svc.semesterAmount(ctx, std, in.Semester)
	} else {
		wf.amount, wf.baseline, err = svc.checkSubjectAction(ctx, in)
	}
	if err != nil {
		return nil, err
	}

	key := flowKey(in)
	svc.mu.Lock()
	if cur, ok := svc.flows[key]; ok && !cur.State().Terminal() {
		svc.mu.Unlock()
		return nil, ErrDuplicateAttempt
	}
	svc.flows[key] = wf
	svc.mu.Unlock()

	ord, err := svc.orders.CreateOrder(ctx, wf.amount, svc.conf.Currency)
	if err != nil {
		// back to Idle; the caller gets an explicit "try again" affordance
		svc.mu.Lock()
		delete(svc.flows, key)
		svc.mu.Unlock()
		if errors.Cause(err) == ErrProviderUnavailable {
			return nil, err
		}
		svc.log.Error("payment order creation failed", err)
		return nil, ErrOrderCreation
	}

	wf.mu.Lock()
	wf.order = ord
	wf.state = StateAwaitingCallback
	wf.mu.Unlock()

	svc.mu.Lock()
	svc.byOrder[ord.ID] = wf
	svc.mu.Unlock()
	return wf, nil
}

// checkSubjectAction re-runs the eligibility evaluation right before order
// creation; the set rendered to the student may be stale by the time they
// click.
func (svc *Service) checkSubjectAction(ctx context.Context, in Intent) (amount int, baseline registration.Grade, err error) {
	subj, err := svc.catalogSvc.Get(ctx, in.SubjectID)
	if err != nil {
		return 0, "", err
	}

	rec, err := svc.regSvc.GetNormal(ctx, in.StudentID, in.SubjectID, in.Semester)
	if err != nil {
		if err == registration.ErrNotFound {
			return 0, "", registration.ErrIneligible
		}
		return 0, "", err
	}

	la, ok := in.Action.ledgerAction()
	if !ok {
		return 0, "", registration.ErrIneligible
	}
	if !registration.Contains(registration.Evaluate(rec), la) {
		return 0, "", registration.ErrIneligible
	}

	if in.Action == ActionReregisterWithdrawn {
		fac, err := svc.facultySvc.Get(ctx, in.FacultyID)
		if err != nil {
			return 0, "", err
		}
		if fac.Department != subj.Department {
			return 0, "", core.NewValidationError(nil,
				core.FieldError{Field: "faculty_id", Error: "faculty does not teach in this department"})
		}
	}

	switch in.Action {
	case ActionChallengeValuation:
		amount = subj.Fees.ChallengeValuation
	case ActionReregisterFailed:
		amount = subj.Fees.ReRegistrationF
	case ActionReregisterWithdrawn:
		amount = subj.Fees.ReRegistrationW
	}
	if amount <= 0 {
		return 0, "", ErrFeeNotConfigured
	}
	return amount, rec.Grade, nil
}

func (svc *Service) semesterAmount(ctx context.Context, std student.Student, semester int) (int, error) {
	subjects, err := svc.catalogSvc.Filter(ctx, catalog.QueryFilter{Semester: semester, Department: std.Department})
	if err != nil {
		return 0, err
	}
	var amount int
	for _, subj := range subjects {
		amount += subj.Fees.Semester
	}
	if amount <= 0 {
		return 0, ErrFeeNotConfigured
	}
	return amount, nil
}

// HandleCallback settles the workflow armed for v.OrderID. It is idempotent:
// once an order has moved past AwaitingProviderCallback, redelivery of the
// same callback is absorbed without touching the ledger again.
func (svc *Service) HandleCallback(ctx context.Context, v Verification) (*Workflow, error) {
	svc.mu.Lock()
	wf := svc.byOrder[v.OrderID]
	svc.mu.Unlock()
	if wf == nil {
		return nil, ErrUnknownOrder
	}

	wf.mu.Lock()
	defer wf.mu.Unlock()

	if wf.state != StateAwaitingCallback {
		// already settled (or mid-verification); absorb the duplicate
		return wf, nil
	}
	wf.state = StateVerifying

	if err := svc.verifier.VerifyPayment(ctx, v); err != nil {
		wf.state = StateFailed
		wf.err = err
		return wf, err
	}

	if err := svc.commit(ctx, wf, v); err != nil {
		// money was collected but the ledger write failed; this needs a human
		wf.state = StateFailed
		wf.err = err
		svc.log.Error(fmt.Sprintf("verified payment could not be committed: order=%s", v.OrderID), err, wf.std)
		return wf, err
	}

	wf.state = StateCommitted
	return wf, nil
}

// commit performs the single ledger mutation for the settled action and
// records the receipt. Must not be reached before verification success.
func (svc *Service) commit(ctx context.Context, wf *Workflow, v Verification) error {
	in := wf.intent

	switch in.Action {
	case ActionChallengeValuation:
		// the original grade is kept as the baseline until revaluation lands
		_, err := svc.regSvc.Append(ctx, registration.Record{
			StudentID: in.StudentID,
			SubjectID: in.SubjectID,
			Semester:  in.Semester,
			Type:      registration.TypeChallengeValuation,
			Grade:     wf.baseline,
		})
		if err != nil {
			return errors.Wrap(err, "appending challenge-valuation record")
		}

	case ActionReregisterFailed:
		_, err := svc.regSvc.Append(ctx, registration.Record{
			StudentID: in.StudentID,
			SubjectID: in.SubjectID,
			Semester:  in.Semester,
			Type:      registration.TypeReregisterFailed,
		})
		if err != nil {
			return errors.Wrap(err, "appending reregister-failed record")
		}

	case ActionReregisterWithdrawn:
		_, err := svc.regSvc.Append(ctx, registration.Record{
			StudentID: in.StudentID,
			SubjectID: in.SubjectID,
			Semester:  in.Semester,
			Type:      registration.TypeReregisterWithdrawn,
			FacultyID: in.FacultyID,
		})
		if err != nil {
			return errors.Wrap(err, "appending reregister-withdrawn record")
		}

	case ActionSemesterPurchase:
		subjects, err := svc.catalogSvc.Filter(ctx, catalog.QueryFilter{Semester: in.Semester, Department: wf.std.Department})
		if err != nil {
			return errors.Wrap(err, "listing semester subjects")
		}
		for _, subj := range subjects {
			_, err := svc.regSvc.Append(ctx, registration.Record{
				StudentID: in.StudentID,
				SubjectID: subj.ID,
				Semester:  in.Semester,
				Type:      registration.TypeNormal,
			})
			if err == registration.ErrConflict {
				continue // already registered earlier
			}
			if err != nil {
				return errors.Wrap(err, "appending normal record")
			}
		}
	}

	receipt, err := svc.repo.SaveReceipt(ctx, Receipt{
		StudentID: in.StudentID,
		SubjectID: in.SubjectID,
		Semester:  in.Semester,
		Action:    in.Action,
		OrderID:   v.OrderID,
		PaymentID: v.PaymentID,
		Amount:    wf.amount,
		Currency:  wf.order.Currency,
		FacultyID: in.FacultyID,
	})
	if err != nil {
		return errors.Wrap(err, "saving receipt")
	}

	svc.sendReceiptEmail(wf.std, receipt)
	return nil
}

func (svc *Service) sendReceiptEmail(std student.Student, r Receipt) {
	if std.Email == "" {
		return
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nYour payment of %d %s for %s has been received.\nOrder: %s\nPayment: %s\n\n%s",
		std.Name, r.Amount, r.Currency, r.Action, r.OrderID, r.PaymentID, svc.conf.AppName,
	)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: std.Name, Address: std.Email}},
		Subject: "Payment received",
		BodyStr: body,
	})
}

func (svc *Service) History(ctx context.Context, studentID string) ([]Receipt, error) {
	return svc.repo.ListStudentReceipts(ctx, studentID)
}

func (svc *Service) All(ctx context.Context) ([]Receipt, error) {
	return svc.repo.ListReceipts(ctx)
}
