package payment_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/faculty"
	"github.com/trezcool/academia/core/payment"
	"github.com/trezcool/academia/core/registration"
	"github.com/trezcool/academia/core/student"
	emailsvc "github.com/trezcool/academia/services/email"
	logsvc "github.com/trezcool/academia/services/logger"
	dummydb "github.com/trezcool/academia/storage/database/dummy"
)

// fakeProvider scripts the order/verify legs of the protocol.
type fakeProvider struct {
	mu        sync.Mutex
	orders    int
	createErr error
	verifyErr error
}

func (p *fakeProvider) CreateOrder(ctx context.Context, amount int, currency string) (payment.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return payment.Order{}, p.createErr
	}
	p.orders++
	return payment.Order{ID: fmt.Sprintf("order_%d", p.orders), Amount: amount, Currency: currency}, nil
}

func (p *fakeProvider) VerifyPayment(ctx context.Context, v payment.Verification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.verifyErr
}

type env struct {
	svc      *payment.Service
	regSvc   *registration.Service
	provider *fakeProvider

	addSubject func(catalog.Subject) catalog.Subject
	addFaculty func(faculty.Faculty) faculty.Faculty
	stdRepo    student.Repository
}

func setup(t *testing.T) *env {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}

	conf := &core.Config{TestMode: true, AppName: "Academia", Currency: "INR"}
	logger := logsvc.NewTestLogger()

	subjRepo := dummydb.NewSubjectRepository(db)
	facRepo := dummydb.NewFacultyRepository(db)
	catalogSvc := catalog.NewService(subjRepo)
	regSvc := registration.NewService(dummydb.NewRegistrationRepository(db), catalogSvc)
	facultySvc := faculty.NewService(facRepo)
	stdRepo := dummydb.NewStudentRepository(db)
	studentSvc := student.NewService(stdRepo, validator.New())

	provider := &fakeProvider{}
	svc := payment.NewService(
		dummydb.NewReceiptRepository(db),
		provider, provider,
		catalogSvc, regSvc, facultySvc, studentSvc,
		emailsvc.NewConsoleService(conf), conf, logger,
	)
	return &env{
		svc:        svc,
		regSvc:     regSvc,
		provider:   provider,
		addSubject: subjRepo.AddSubject,
		addFaculty: facRepo.AddFaculty,
		stdRepo:    stdRepo,
	}
}

func (e *env) createStudent(t *testing.T, sem int) student.Student {
	t.Helper()
	std := student.Student{
		USN:             "1ab19cs001",
		Name:            "Awe Some",
		Email:           "awe@test.edu",
		Department:      "CSE",
		CurrentSemester: sem,
	}
	std, err := e.stdRepo.CreateStudent(context.Background(), std)
	if err != nil {
		t.Fatalf("CreateStudent() failed, %v", err)
	}
	return std
}

// gradedSubject seeds a subject and a graded, announced normal record for std.
func (e *env) gradedSubject(t *testing.T, std student.Student, code string, fees catalog.FeeSchedule, grade registration.Grade) catalog.Subject {
	t.Helper()
	ctx := context.Background()

	subj := e.addSubject(catalog.Subject{Code: code, Name: code, Credits: 4, Semester: 1, Department: "CSE", Fees: fees})
	if _, err := e.regSvc.Append(ctx, registration.Record{StudentID: std.ID, SubjectID: subj.ID, Semester: 1}); err != nil {
		t.Fatalf("Append() failed, %v", err)
	}
	if _, err := e.regSvc.SetGrade(ctx, std.ID, subj.ID, 1, grade); err != nil {
		t.Fatalf("SetGrade() failed, %v", err)
	}
	return subj
}

var fees = catalog.FeeSchedule{Semester: 1200, ChallengeValuation: 500, ReRegistrationF: 400, ReRegistrationW: 650}

func TestService_Begin(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	std := e.createStudent(t, 1)
	subj := e.gradedSubject(t, std, "21MAT11", fees, registration.GradeB)

	t.Run("missing fields", func(t *testing.T) {
		_, err := e.svc.Begin(ctx, payment.Intent{Action: "lol"})
		vErr, ok := err.(*core.ValidationError)
		if assert.True(t, ok, "want *core.ValidationError, got %v", err) {
			assert.Len(t, vErr.Fields, 4) // action, student_id, semester, subject_id
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		_, err := e.svc.Begin(ctx, payment.Intent{
			Action: payment.ActionChallengeValuation, StudentID: "lol", SubjectID: subj.ID, Semester: 1,
		})
		assert.Equal(t, student.ErrNotFound, err)
	})

	t.Run("ineligible action", func(t *testing.T) {
		// grade B only opens challenge valuation
		_, err := e.svc.Begin(ctx, payment.Intent{
			Action: payment.ActionReregisterFailed, StudentID: std.ID, SubjectID: subj.ID, Semester: 1,
		})
		assert.Equal(t, registration.ErrIneligible, err)
		assert.Equal(t, 0, e.provider.orders) // no order was created
	})

	t.Run("no registration record", func(t *testing.T) {
		other := e.addSubject(catalog.Subject{Code: "21PHY12", Name: "Physics", Credits: 3, Semester: 1, Department: "CSE", Fees: fees})
		_, err := e.svc.Begin(ctx, payment.Intent{
			Action: payment.ActionChallengeValuation, StudentID: std.ID, SubjectID: other.ID, Semester: 1,
		})
		assert.Equal(t, registration.ErrIneligible, err)
	})

	t.Run("fee not configured", func(t *testing.T) {
		unpriced := e.gradedSubject(t, std, "21CHE13", catalog.FeeSchedule{}, registration.GradeB)
		_, err := e.svc.Begin(ctx, payment.Intent{
			Action: payment.ActionChallengeValuation, StudentID: std.ID, SubjectID: unpriced.ID, Semester: 1,
		})
		assert.Equal(t, payment.ErrFeeNotConfigured, err)
	})

	t.Run("happy path", func(t *testing.T) {
		wf, err := e.svc.Begin(ctx, payment.Intent{
			Action: payment.ActionChallengeValuation, StudentID: std.ID, SubjectID: subj.ID, Semester: 1,
		})
		assert.NoError(t, err)
		assert.Equal(t, payment.StateAwaitingCallback, wf.State())
		assert.Equal(t, fees.ChallengeValuation, wf.Amount())
		assert.NotEmpty(t, wf.Order().ID)
	})

	t.Run("duplicate in-flight attempt", func(t *testing.T) {
		_, err := e.svc.Begin(ctx, payment.Intent{
			Action: payment.ActionChallengeValuation, StudentID: std.ID, SubjectID: subj.ID, Semester: 1,
		})
		assert.Equal(t, payment.ErrDuplicateAttempt, err)
	})
}

func TestService_Begin_orderCreationFails(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	std := e.createStudent(t, 1)
	subj := e.gradedSubject(t, std, "21MAT11", fees, registration.GradeB)

	intent := payment.Intent{
		Action: payment.ActionChallengeValuation, StudentID: std.ID, SubjectID: subj.ID, Semester: 1,
	}

	e.provider.createErr = errors.Wrap(payment.ErrProviderUnavailable, "dial tcp: timeout")
	_, err := e.svc.Begin(ctx, intent)
	assert.Equal(t, payment.ErrProviderUnavailable, errors.Cause(err))

	e.provider.createErr = errors.New("boom")
	_, err = e.svc.Begin(ctx, intent)
	assert.Equal(t, payment.ErrOrderCreation, err)

	// the failed attempt went back to Idle; a retry works
	e.provider.createErr = nil
	wf, err := e.svc.Begin(ctx, intent)
	assert.NoError(t, err)
	assert.Equal(t, payment.StateAwaitingCallback, wf.State())
}

func TestService_HandleCallback(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	std := e.createStudent(t, 1)
	subj := e.gradedSubject(t, std, "21MAT11", fees, registration.GradeB)

	wf, err := e.svc.Begin(ctx, payment.Intent{
		Action: payment.ActionChallengeValuation, StudentID: std.ID, SubjectID: subj.ID, Semester: 1,
	})
	assert.NoError(t, err)
	ord := wf.Order()

	t.Run("unknown order", func(t *testing.T) {
		_, err := e.svc.HandleCallback(ctx, payment.Verification{OrderID: "lol", PaymentID: "pay_1", Signature: "sig"})
		assert.Equal(t, payment.ErrUnknownOrder, err)
	})

	t.Run("verification fails", func(t *testing.T) {
		e.provider.verifyErr = payment.ErrVerificationFailed
		got, err := e.svc.HandleCallback(ctx, payment.Verification{OrderID: ord.ID, PaymentID: "pay_1", Signature: "bad"})
		assert.Equal(t, payment.ErrVerificationFailed, err)
		assert.Equal(t, payment.StateFailed, got.State())

		// the ledger was not touched
		recs, err := e.regSvc.ListForStudent(ctx, std.ID, 1)
		assert.NoError(t, err)
		assert.Len(t, recs, 1)
	})

	t.Run("failed flow can be re-initiated", func(t *testing.T) {
		e.provider.verifyErr = nil
		wf, err = e.svc.Begin(ctx, payment.Intent{
			Action: payment.ActionChallengeValuation, StudentID: std.ID, SubjectID: subj.ID, Semester: 1,
		})
		assert.NoError(t, err)
		ord = wf.Order()

		got, err := e.svc.HandleCallback(ctx, payment.Verification{OrderID: ord.ID, PaymentID: "pay_2", Signature: "sig"})
		assert.NoError(t, err)
		assert.Equal(t, payment.StateCommitted, got.State())

		// exactly one challenge-valuation record, carrying the baseline grade
		recs, err := e.regSvc.ListForStudent(ctx, std.ID, 1)
		assert.NoError(t, err)
		assert.Len(t, recs, 2)
		var cv registration.Record
		for _, rec := range recs {
			if rec.Type == registration.TypeChallengeValuation {
				cv = rec
			}
		}
		assert.Equal(t, registration.GradeB, cv.Grade)

		receipts, err := e.svc.History(ctx, std.ID)
		assert.NoError(t, err)
		assert.Len(t, receipts, 1)
		assert.Equal(t, ord.ID, receipts[0].OrderID)
		assert.Equal(t, fees.ChallengeValuation, receipts[0].Amount)
	})

	t.Run("callback replay is absorbed", func(t *testing.T) {
		got, err := e.svc.HandleCallback(ctx, payment.Verification{OrderID: ord.ID, PaymentID: "pay_2", Signature: "sig"})
		assert.NoError(t, err)
		assert.Equal(t, payment.StateCommitted, got.State())

		recs, err := e.regSvc.ListForStudent(ctx, std.ID, 1)
		assert.NoError(t, err)
		assert.Len(t, recs, 2) // still one extra record

		receipts, err := e.svc.History(ctx, std.ID)
		assert.NoError(t, err)
		assert.Len(t, receipts, 1) // still one receipt
	})
}

func TestService_reregistration(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	std := e.createStudent(t, 1)
	withdrawn := e.gradedSubject(t, std, "21MAT11", fees, registration.GradeW)
	failed := e.gradedSubject(t, std, "21PHY12", fees, registration.GradeF)
	fac := e.addFaculty(faculty.Faculty{Name: "Dr. Who", Email: "who@test.edu", Department: "CSE"})
	otherFac := e.addFaculty(faculty.Faculty{Name: "Dr. Strange", Email: "strange@test.edu", Department: "ECE"})

	t.Run("withdrawn requires a faculty", func(t *testing.T) {
		_, err := e.svc.Begin(ctx, payment.Intent{
			Action: payment.ActionReregisterWithdrawn, StudentID: std.ID, SubjectID: withdrawn.ID, Semester: 1,
		})
		_, ok := err.(*core.ValidationError)
		assert.True(t, ok, "want *core.ValidationError, got %v", err)
	})

	t.Run("faculty must match the department", func(t *testing.T) {
		_, err := e.svc.Begin(ctx, payment.Intent{
			Action: payment.ActionReregisterWithdrawn, StudentID: std.ID, SubjectID: withdrawn.ID, Semester: 1,
			FacultyID: otherFac.ID,
		})
		_, ok := err.(*core.ValidationError)
		assert.True(t, ok, "want *core.ValidationError, got %v", err)
	})

	t.Run("withdrawn commit carries the faculty", func(t *testing.T) {
		wf, err := e.svc.Begin(ctx, payment.Intent{
			Action: payment.ActionReregisterWithdrawn, StudentID: std.ID, SubjectID: withdrawn.ID, Semester: 1,
			FacultyID: fac.ID,
		})
		assert.NoError(t, err)
		assert.Equal(t, fees.ReRegistrationW, wf.Amount())

		_, err = e.svc.HandleCallback(ctx, payment.Verification{OrderID: wf.Order().ID, PaymentID: "pay_1", Signature: "sig"})
		assert.NoError(t, err)

		recs, err := e.regSvc.ListForStudent(ctx, std.ID, 1)
		assert.NoError(t, err)
		var rr registration.Record
		for _, rec := range recs {
			if rec.Type == registration.TypeReregisterWithdrawn {
				rr = rec
			}
		}
		assert.Equal(t, fac.ID, rr.FacultyID)
		assert.Empty(t, rr.Grade) // the new attempt starts ungraded
	})

	t.Run("failed reregistration", func(t *testing.T) {
		wf, err := e.svc.Begin(ctx, payment.Intent{
			Action: payment.ActionReregisterFailed, StudentID: std.ID, SubjectID: failed.ID, Semester: 1,
		})
		assert.NoError(t, err)
		assert.Equal(t, fees.ReRegistrationF, wf.Amount())

		got, err := e.svc.HandleCallback(ctx, payment.Verification{OrderID: wf.Order().ID, PaymentID: "pay_2", Signature: "sig"})
		assert.NoError(t, err)
		assert.Equal(t, payment.StateCommitted, got.State())
	})
}

func TestService_semesterPurchase(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	std := e.createStudent(t, 2)

	maths := e.addSubject(catalog.Subject{Code: "21MAT21", Name: "Maths II", Credits: 4, Semester: 2, Department: "CSE", Fees: catalog.FeeSchedule{Semester: 800}})
	chem := e.addSubject(catalog.Subject{Code: "21CHE22", Name: "Chemistry", Credits: 3, Semester: 2, Department: "CSE", Fees: catalog.FeeSchedule{Semester: 700}})
	// a different department's subject is not part of the purchase
	e.addSubject(catalog.Subject{Code: "21ECE21", Name: "Circuits", Credits: 3, Semester: 2, Department: "ECE", Fees: catalog.FeeSchedule{Semester: 900}})

	// already registered for one subject; the purchase skips it
	_, err := e.regSvc.Append(ctx, registration.Record{StudentID: std.ID, SubjectID: maths.ID, Semester: 2})
	assert.NoError(t, err)

	wf, err := e.svc.Begin(ctx, payment.Intent{
		Action: payment.ActionSemesterPurchase, StudentID: std.ID, Semester: 2,
	})
	assert.NoError(t, err)
	assert.Equal(t, 1500, wf.Amount()) // 800 + 700

	got, err := e.svc.HandleCallback(ctx, payment.Verification{OrderID: wf.Order().ID, PaymentID: "pay_1", Signature: "sig"})
	assert.NoError(t, err)
	assert.Equal(t, payment.StateCommitted, got.State())

	recs, err := e.regSvc.ListForStudent(ctx, std.ID, 2)
	assert.NoError(t, err)
	assert.Len(t, recs, 2) // maths (pre-existing) + chem; no duplicate maths
	for _, rec := range recs {
		assert.Equal(t, registration.TypeNormal, rec.Type)
		assert.Contains(t, []string{maths.ID, chem.ID}, rec.SubjectID)
	}

	receipts, err := e.svc.All(ctx)
	assert.NoError(t, err)
	assert.Len(t, receipts, 1)
	assert.Equal(t, payment.ActionSemesterPurchase, receipts[0].Action)
}
