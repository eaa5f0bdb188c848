package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core/registration"
)

type registrationRepository struct {
	db       *registrationTable
	subjects *subjectTable // for (semester, subject code) ordering
}

var _ registration.Repository = (*registrationRepository)(nil) // interface compliance check

func NewRegistrationRepository(db *DB) *registrationRepository {
	return &registrationRepository{db: db.registration, subjects: db.subject}
}

func (repo *registrationRepository) AppendRecord(ctx context.Context, rec registration.Record) (registration.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if rec.Type == registration.TypeNormal {
		for _, cur := range repo.db.t {
			if cur.Type == registration.TypeNormal &&
				cur.StudentID == rec.StudentID &&
				cur.SubjectID == rec.SubjectID &&
				cur.Semester == rec.Semester {
				return registration.Record{}, registration.ErrConflict
			}
		}
	}

	rec.ID = uuid.New().String()
	repo.db.t[rec.ID] = &rec
	return rec, nil
}

func (repo *registrationRepository) subjectCode(id string) string {
	repo.subjects.RLock()
	defer repo.subjects.RUnlock()

	if subj, ok := repo.subjects.t[id]; ok {
		return subj.Code
	}
	return id
}

func (repo *registrationRepository) ListStudentRecords(ctx context.Context, studentID string, semester ...int) ([]registration.Record, error) {
	repo.db.RLock()
	recs := make([]registration.Record, 0)
	for _, rec := range repo.db.t {
		if rec.StudentID != studentID {
			continue
		}
		if len(semester) > 0 && rec.Semester != semester[0] {
			continue
		}
		recs = append(recs, *rec)
	}
	repo.db.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Semester != recs[j].Semester {
			return recs[i].Semester < recs[j].Semester
		}
		return repo.subjectCode(recs[i].SubjectID) < repo.subjectCode(recs[j].SubjectID)
	})
	return recs, nil
}

func (repo *registrationRepository) GetNormalRecord(ctx context.Context, studentID, subjectID string, semester int) (registration.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, rec := range repo.db.t {
		if rec.Type == registration.TypeNormal &&
			rec.StudentID == studentID &&
			rec.SubjectID == subjectID &&
			rec.Semester == semester {
			return *rec, nil
		}
	}
	return registration.Record{}, registration.ErrNotFound
}

func (repo *registrationRepository) UpdateRecord(ctx context.Context, rec registration.Record) (registration.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.t[rec.ID]; !ok {
		return registration.Record{}, registration.ErrNotFound
	}
	repo.db.t[rec.ID] = &rec
	return rec, nil
}
