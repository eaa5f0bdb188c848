package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core/payment"
)

type receiptRow struct {
	ID        string      `db:"id"`
	StudentID string      `db:"student_id"`
	SubjectID null.String `db:"subject_id"`
	Semester  int         `db:"semester"`
	Action    string      `db:"action"`
	OrderID   string      `db:"order_id"`
	PaymentID string      `db:"payment_id"`
	Amount    int         `db:"amount"`
	Currency  string      `db:"currency"`
	FacultyID null.String `db:"faculty_id"`
	CreatedAt time.Time   `db:"created_at"`
}

func (r receiptRow) toDomain() payment.Receipt {
	return payment.Receipt{
		ID:        r.ID,
		StudentID: r.StudentID,
		SubjectID: r.SubjectID.String,
		Semester:  r.Semester,
		Action:    payment.Action(r.Action),
		OrderID:   r.OrderID,
		PaymentID: r.PaymentID,
		Amount:    r.Amount,
		Currency:  r.Currency,
		FacultyID: r.FacultyID.String,
		CreatedAt: r.CreatedAt,
	}
}

type receiptRepository struct {
	db *sqlx.DB
}

var _ payment.Repository = (*receiptRepository)(nil) // interface compliance check

func NewReceiptRepository(db *sql.DB) *receiptRepository {
	return &receiptRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *receiptRepository) SaveReceipt(ctx context.Context, r payment.Receipt) (payment.Receipt, error) {
	r.ID = uuid.New().String()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	row := receiptRow{
		ID:        r.ID,
		StudentID: r.StudentID,
		SubjectID: null.NewString(r.SubjectID, r.SubjectID != ""),
		Semester:  r.Semester,
		Action:    string(r.Action),
		OrderID:   r.OrderID,
		PaymentID: r.PaymentID,
		Amount:    r.Amount,
		Currency:  r.Currency,
		FacultyID: null.NewString(r.FacultyID, r.FacultyID != ""),
		CreatedAt: r.CreatedAt,
	}
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO receipt (id, student_id, subject_id, semester, action, order_id, payment_id, amount, currency, faculty_id, created_at)
		VALUES (:id, :student_id, :subject_id, :semester, :action, :order_id, :payment_id, :amount, :currency, :faculty_id, :created_at)`,
		row,
	)
	if err != nil {
		return payment.Receipt{}, err
	}
	return r, nil
}

func (repo *receiptRepository) list(ctx context.Context, q string, args ...interface{}) ([]payment.Receipt, error) {
	var rows []receiptRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	receipts := make([]payment.Receipt, 0, len(rows))
	for _, row := range rows {
		receipts = append(receipts, row.toDomain())
	}
	return receipts, nil
}

func (repo *receiptRepository) ListStudentReceipts(ctx context.Context, studentID string) ([]payment.Receipt, error) {
	return repo.list(ctx, `SELECT * FROM receipt WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
}

func (repo *receiptRepository) ListReceipts(ctx context.Context) ([]payment.Receipt, error) {
	return repo.list(ctx, `SELECT * FROM receipt ORDER BY created_at DESC`)
}
