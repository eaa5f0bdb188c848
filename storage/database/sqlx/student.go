package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/trezcool/academia/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sql.DB) *studentRepository {
	return &studentRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *studentRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM student WHERE email = $1)`, email)
	if err != nil {
		return err
	}
	if exists {
		return student.ErrEmailExists
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO student (id, usn, name, email, department, current_semester, password_hash, created_at, updated_at)
		VALUES (:id, :usn, :name, :email, :department, :current_semester, :password_hash, :created_at, :updated_at)`,
		std,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return student.Student{}, student.ErrEmailExists
		}
		return student.Student{}, err
	}
	return std, nil
}

func (repo *studentRepository) getBy(ctx context.Context, field, value string) (student.Student, error) {
	var std student.Student
	err := repo.db.GetContext(ctx, &std, `SELECT * FROM student WHERE `+field+` = $1`, value)
	if err == sql.ErrNoRows {
		return student.Student{}, student.ErrNotFound
	}
	if err != nil {
		return student.Student{}, err
	}
	return std, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	return repo.getBy(ctx, "id", id)
}

func (repo *studentRepository) GetStudentByUSN(ctx context.Context, usn string) (student.Student, error) {
	return repo.getBy(ctx, "usn", usn)
}

func (repo *studentRepository) GetStudentByEmail(ctx context.Context, email string) (student.Student, error) {
	return repo.getBy(ctx, "email", email)
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE student
		SET usn = :usn, name = :name, email = :email, department = :department,
		    current_semester = :current_semester, password_hash = :password_hash, updated_at = :updated_at
		WHERE id = :id`,
		std,
	)
	if err != nil {
		return student.Student{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return std, nil
}
