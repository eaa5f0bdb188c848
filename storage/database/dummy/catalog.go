package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core/catalog"
)

type subjectRepository struct {
	db *subjectTable
}

var _ catalog.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *DB) *subjectRepository {
	return &subjectRepository{db: db.subject}
}

// AddSubject seeds a catalog entry; the admin portal owns this in production.
func (repo *subjectRepository) AddSubject(subj catalog.Subject) catalog.Subject {
	repo.db.Lock()
	defer repo.db.Unlock()

	if subj.ID == "" {
		subj.ID = uuid.New().String()
	}
	repo.db.t[subj.ID] = &subj
	return subj
}

func (repo *subjectRepository) GetSubject(ctx context.Context, id string) (catalog.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if subj, ok := repo.db.t[id]; ok {
		return *subj, nil
	}
	return catalog.Subject{}, catalog.ErrNotFound
}

func (repo *subjectRepository) FilterSubjects(ctx context.Context, filter catalog.QueryFilter) ([]catalog.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subjects := make([]catalog.Subject, 0, len(repo.db.t))
	for _, subj := range repo.db.t {
		if filter.Semester != 0 && subj.Semester != filter.Semester {
			continue
		}
		if filter.Department != "" && !strings.EqualFold(subj.Department, filter.Department) {
			continue
		}
		subjects = append(subjects, *subj)
	}
	sort.Slice(subjects, func(i, j int) bool {
		if subjects[i].Semester != subjects[j].Semester {
			return subjects[i].Semester < subjects[j].Semester
		}
		return subjects[i].Code < subjects[j].Code
	})
	return subjects, nil
}
