package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core/faculty"
)

type facultyRepository struct {
	db *facultyTable
}

var _ faculty.Repository = (*facultyRepository)(nil) // interface compliance check

func NewFacultyRepository(db *DB) *facultyRepository {
	return &facultyRepository{db: db.faculty}
}

// AddFaculty seeds a directory entry; the faculty portal owns this in production.
func (repo *facultyRepository) AddFaculty(fac faculty.Faculty) faculty.Faculty {
	repo.db.Lock()
	defer repo.db.Unlock()

	if fac.ID == "" {
		fac.ID = uuid.New().String()
	}
	repo.db.t[fac.ID] = &fac
	return fac
}

func (repo *facultyRepository) GetFaculty(ctx context.Context, id string) (faculty.Faculty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if fac, ok := repo.db.t[id]; ok {
		return *fac, nil
	}
	return faculty.Faculty{}, faculty.ErrNotFound
}

func (repo *facultyRepository) FilterByDepartment(ctx context.Context, department string) ([]faculty.Faculty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	facs := make([]faculty.Faculty, 0)
	for _, fac := range repo.db.t {
		if strings.EqualFold(fac.Department, department) {
			facs = append(facs, *fac)
		}
	}
	sort.Slice(facs, func(i, j int) bool { return facs[i].Name < facs[j].Name })
	return facs, nil
}
