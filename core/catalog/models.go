package catalog

import "errors"

var (
	// errors
	ErrNotFound = errors.New("subject not found")
)

// FeeSchedule holds the named amounts a subject can charge, in whole rupees.
// A zero amount means the fee is not configured.
type FeeSchedule struct {
	Semester           int `json:"semester" db:"semester_fee"`
	ChallengeValuation int `json:"challengeValuation" db:"challenge_valuation_fee"`
	ReRegistrationF    int `json:"reRegistrationF" db:"reregistration_f_fee"`
	ReRegistrationW    int `json:"reRegistrationW" db:"reregistration_w_fee"`
}

// Subject is a catalog entry. It is owned and mutated by the admin portal;
// this core only reads it.
type Subject struct {
	ID         string      `json:"id" db:"id"`
	Code       string      `json:"code" db:"code"`
	Name       string      `json:"name" db:"name"`
	Credits    int         `json:"credits" db:"credits"`
	Semester   int         `json:"semester" db:"semester"`
	Department string      `json:"department" db:"department"`
	Fees       FeeSchedule `json:"fees"`
}

// QueryFilter narrows FilterSubjects results. Zero values are ignored.
type QueryFilter struct {
	Semester   int    `query:"semester"`
	Department string `query:"department"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Semester == 0 && qf.Department == ""
}
