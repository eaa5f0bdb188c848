package student

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/academia/core"
)

// UnassignedUSN marks a freshly registered student whose USN has not been
// issued by the admin yet.
const UnassignedUSN = "-1"

type Student struct {
	ID              string    `json:"id" db:"id"`
	USN             string    `json:"usn" db:"usn"`
	Name            string    `json:"name" db:"name"`
	Email           string    `json:"email" db:"email"`
	Department      string    `json:"department" db:"department"`
	CurrentSemester int       `json:"current_semester" db:"current_semester"`
	PasswordHash    []byte    `json:"-" db:"password_hash"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

func (s *Student) HasUSN() bool {
	return s.USN != "" && s.USN != UnassignedUSN
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Department      string `json:"department" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (ns *NewStudent) Validate(svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Department = core.CleanString(ns.Department)

	if err := svc.validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkUniqueness(ns.Email)
}
