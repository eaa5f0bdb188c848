package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/academia/core/faculty"
)

type facultyRepository struct {
	db *sqlx.DB
}

var _ faculty.Repository = (*facultyRepository)(nil) // interface compliance check

func NewFacultyRepository(db *sql.DB) *facultyRepository {
	return &facultyRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *facultyRepository) GetFaculty(ctx context.Context, id string) (faculty.Faculty, error) {
	var fac faculty.Faculty
	err := repo.db.GetContext(ctx, &fac, `SELECT * FROM faculty WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return faculty.Faculty{}, faculty.ErrNotFound
	}
	if err != nil {
		return faculty.Faculty{}, err
	}
	return fac, nil
}

func (repo *facultyRepository) FilterByDepartment(ctx context.Context, department string) ([]faculty.Faculty, error) {
	var facs []faculty.Faculty
	err := repo.db.SelectContext(ctx, &facs,
		`SELECT * FROM faculty WHERE LOWER(department) = LOWER($1) ORDER BY name`, department)
	if err != nil {
		return nil, err
	}
	return facs, nil
}
