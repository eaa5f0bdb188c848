package echoapi

import (
	"time"

	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/faculty"
	"github.com/trezcool/academia/core/payment"
	"github.com/trezcool/academia/core/registration"
	"github.com/trezcool/academia/core/student"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"` // USN or email
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	ResultsResponse struct {
		Student student.Student             `json:"student"`
		Result  registration.SemesterResult `json:"result"`
		Legend  []registration.LegendRow    `json:"legend"`
	}

	// EligibleSubject is one record the student can pay an action for.
	EligibleSubject struct {
		Subject catalog.Subject       `json:"subject"`
		Record  registration.Record   `json:"record"`
		Actions []registration.Action `json:"actions"`
	}

	ReregistrationsResponse struct {
		Semester  int               `json:"semester"`
		Subjects  []EligibleSubject `json:"subjects"`
		Faculties []faculty.Faculty `json:"faculties"` // same-department options for re-registration
	}

	PaymentIntentRequest struct {
		Action    payment.Action `json:"action" validate:"required"`
		SubjectID string         `json:"subject_id"`
		Semester  int            `json:"semester"` // defaults to the student's current semester
		FacultyID string         `json:"faculty_id"`
	}

	// PaymentOrderResponse carries what the checkout widget needs to open.
	PaymentOrderResponse struct {
		OrderID     string `json:"order_id"`
		Amount      int    `json:"amount"` // whole rupees
		Currency    string `json:"currency"`
		State       string `json:"state"`
		RazorpayKey string `json:"razorpay_key"`
	}

	VerifyResponse struct {
		Success bool   `json:"success"`
		State   string `json:"state"`
	}

	GradeRequest struct {
		StudentID string `json:"student_id" validate:"required"`
		SubjectID string `json:"subject_id" validate:"required"`
		Semester  int    `json:"semester" validate:"required,min=1"`
		Grade     string `json:"grade" validate:"required"`
	}

	AnnounceRequest struct {
		StudentID string    `json:"student_id" validate:"required"`
		Semester  int       `json:"semester" validate:"required,min=1"`
		At        time.Time `json:"at"` // zero means now
	}

	AssignUSNRequest struct {
		USN string `json:"usn" validate:"required,alphanum_"`
	}
)
