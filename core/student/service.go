package student

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

var (
	// errors
	ErrNotFound    = errors.New("student not found")
	ErrEmailExists = errors.New("a student with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string) error
		CreateStudent(ctx context.Context, std Student) (Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByUSN(ctx context.Context, usn string) (Student, error)
		GetStudentByEmail(ctx context.Context, email string) (Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

var nowFunc = time.Now // mockable

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) checkUniqueness(email string) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := nowFunc().UTC()
	std := Student{
		USN:             UnassignedUSN,
		Name:            ns.Name,
		Email:           ns.Email,
		Department:      ns.Department,
		CurrentSemester: 1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := std.SetPassword(ns.Password); err != nil {
		return Student{}, err
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) GetByUSN(ctx context.Context, usn string) (Student, error) {
	return svc.repo.GetStudentByUSN(ctx, core.CleanString(usn, true /* lower */))
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Student, error) {
	return svc.repo.GetStudentByEmail(ctx, core.CleanString(email, true /* lower */))
}

// AssignUSN issues the university serial number; done once by the admin after
// verifying the student's documents.
func (svc *Service) AssignUSN(ctx context.Context, id, usn string) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	std.USN = core.CleanString(usn, true /* lower */)
	std.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}

// IncreaseSemester promotes the student to the next semester.
func (svc *Service) IncreaseSemester(ctx context.Context, id string) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	std.CurrentSemester++
	std.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}
