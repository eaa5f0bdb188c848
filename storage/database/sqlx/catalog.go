package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/academia/core/catalog"
)

type subjectRow struct {
	ID                    string `db:"id"`
	Code                  string `db:"code"`
	Name                  string `db:"name"`
	Credits               int    `db:"credits"`
	Semester              int    `db:"semester"`
	Department            string `db:"department"`
	SemesterFee           int    `db:"semester_fee"`
	ChallengeValuationFee int    `db:"challenge_valuation_fee"`
	ReregistrationFFee    int    `db:"reregistration_f_fee"`
	ReregistrationWFee    int    `db:"reregistration_w_fee"`
}

func (r subjectRow) toDomain() catalog.Subject {
	return catalog.Subject{
		ID:         r.ID,
		Code:       r.Code,
		Name:       r.Name,
		Credits:    r.Credits,
		Semester:   r.Semester,
		Department: r.Department,
		Fees: catalog.FeeSchedule{
			Semester:           r.SemesterFee,
			ChallengeValuation: r.ChallengeValuationFee,
			ReRegistrationF:    r.ReregistrationFFee,
			ReRegistrationW:    r.ReregistrationWFee,
		},
	}
}

type subjectRepository struct {
	db *sqlx.DB
}

var _ catalog.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *sql.DB) *subjectRepository {
	return &subjectRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *subjectRepository) GetSubject(ctx context.Context, id string) (catalog.Subject, error) {
	var row subjectRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM subject WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return catalog.Subject{}, catalog.ErrNotFound
	}
	if err != nil {
		return catalog.Subject{}, err
	}
	return row.toDomain(), nil
}

func (repo *subjectRepository) FilterSubjects(ctx context.Context, filter catalog.QueryFilter) ([]catalog.Subject, error) {
	q := `SELECT * FROM subject WHERE TRUE`
	args := make([]interface{}, 0, 2)
	if filter.Semester != 0 {
		args = append(args, filter.Semester)
		q += ` AND semester = $1`
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		if len(args) == 1 {
			q += ` AND LOWER(department) = LOWER($1)`
		} else {
			q += ` AND LOWER(department) = LOWER($2)`
		}
	}
	q += ` ORDER BY semester, code`

	var rows []subjectRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	subjects := make([]catalog.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, row.toDomain())
	}
	return subjects, nil
}
