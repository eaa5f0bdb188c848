package faculty

import (
	"context"

	"github.com/trezcool/academia/core"
)

type (
	Repository interface {
		GetFaculty(ctx context.Context, id string) (Faculty, error)
		// FilterByDepartment does a case-insensitive match on Faculty.Department,
		// ordered by name.
		FilterByDepartment(ctx context.Context, department string) ([]Faculty, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Get(ctx context.Context, id string) (Faculty, error) {
	return svc.repo.GetFaculty(ctx, id)
}

func (svc *Service) FilterByDepartment(ctx context.Context, dept string) ([]Faculty, error) {
	return svc.repo.FilterByDepartment(ctx, core.CleanString(dept))
}
