package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core/registration"
)

// uniqueViolation is the postgres error code raised by the partial unique
// index guarding normal-type records.
const uniqueViolation = "23505"

type registrationRow struct {
	ID              string      `db:"id"`
	StudentID       string      `db:"student_id"`
	SubjectID       string      `db:"subject_id"`
	Semester        int         `db:"semester"`
	Type            string      `db:"type"`
	Grade           null.String `db:"grade"`
	FacultyID       null.String `db:"faculty_id"`
	ResultAnnounced bool        `db:"result_announced"`
	AnnouncedAt     null.Time   `db:"announced_at"`
	CreatedAt       null.Time   `db:"created_at"`
}

func (r registrationRow) toDomain() registration.Record {
	rec := registration.Record{
		ID:              r.ID,
		StudentID:       r.StudentID,
		SubjectID:       r.SubjectID,
		Semester:        r.Semester,
		Type:            registration.Type(r.Type),
		Grade:           registration.Grade(r.Grade.String),
		FacultyID:       r.FacultyID.String,
		ResultAnnounced: r.ResultAnnounced,
	}
	if r.AnnouncedAt.Valid {
		rec.AnnouncedAt = r.AnnouncedAt.Time
	}
	if r.CreatedAt.Valid {
		rec.CreatedAt = r.CreatedAt.Time
	}
	return rec
}

func toRegistrationRow(rec registration.Record) registrationRow {
	return registrationRow{
		ID:              rec.ID,
		StudentID:       rec.StudentID,
		SubjectID:       rec.SubjectID,
		Semester:        rec.Semester,
		Type:            string(rec.Type),
		Grade:           null.NewString(string(rec.Grade), rec.Grade != ""),
		FacultyID:       null.NewString(rec.FacultyID, rec.FacultyID != ""),
		ResultAnnounced: rec.ResultAnnounced,
		AnnouncedAt:     null.NewTime(rec.AnnouncedAt, !rec.AnnouncedAt.IsZero()),
		CreatedAt:       null.NewTime(rec.CreatedAt, !rec.CreatedAt.IsZero()),
	}
}

type registrationRepository struct {
	db *sqlx.DB
}

var _ registration.Repository = (*registrationRepository)(nil) // interface compliance check

func NewRegistrationRepository(db *sql.DB) *registrationRepository {
	return &registrationRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *registrationRepository) AppendRecord(ctx context.Context, rec registration.Record) (registration.Record, error) {
	rec.ID = uuid.New().String()
	row := toRegistrationRow(rec)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO registration (id, student_id, subject_id, semester, type, grade, faculty_id, result_announced, announced_at, created_at)
		VALUES (:id, :student_id, :subject_id, :semester, :type, :grade, :faculty_id, :result_announced, :announced_at, :created_at)`,
		row,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return registration.Record{}, registration.ErrConflict
		}
		return registration.Record{}, err
	}
	return rec, nil
}

func (repo *registrationRepository) ListStudentRecords(ctx context.Context, studentID string, semester ...int) ([]registration.Record, error) {
	q := `
		SELECT r.* FROM registration r
		JOIN subject s ON s.id = r.subject_id
		WHERE r.student_id = $1`
	args := []interface{}{studentID}
	if len(semester) > 0 {
		args = append(args, semester[0])
		q += ` AND r.semester = $2`
	}
	q += ` ORDER BY r.semester, s.code`

	var rows []registrationRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	recs := make([]registration.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.toDomain())
	}
	return recs, nil
}

func (repo *registrationRepository) GetNormalRecord(ctx context.Context, studentID, subjectID string, semester int) (registration.Record, error) {
	var row registrationRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT * FROM registration
		WHERE student_id = $1 AND subject_id = $2 AND semester = $3 AND type = $4`,
		studentID, subjectID, semester, string(registration.TypeNormal),
	)
	if err == sql.ErrNoRows {
		return registration.Record{}, registration.ErrNotFound
	}
	if err != nil {
		return registration.Record{}, err
	}
	return row.toDomain(), nil
}

func (repo *registrationRepository) UpdateRecord(ctx context.Context, rec registration.Record) (registration.Record, error) {
	row := toRegistrationRow(rec)
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE registration
		SET grade = :grade, faculty_id = :faculty_id, result_announced = :result_announced, announced_at = :announced_at
		WHERE id = :id`,
		row,
	)
	if err != nil {
		return registration.Record{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return registration.Record{}, registration.ErrNotFound
	}
	return rec, nil
}
