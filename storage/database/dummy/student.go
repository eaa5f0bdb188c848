package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.t {
		if std.Email == email {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	std.ID = uuid.New().String()
	repo.db.t[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.t[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByUSN(ctx context.Context, usn string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.t {
		if std.USN == usn {
			return *std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByEmail(ctx context.Context, email string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.t {
		if std.Email == email {
			return *std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.t[std.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.t[std.ID] = &std
	return std, nil
}
