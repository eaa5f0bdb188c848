package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core/payment"
)

type receiptRepository struct {
	db *receiptTable
}

var _ payment.Repository = (*receiptRepository)(nil) // interface compliance check

func NewReceiptRepository(db *DB) *receiptRepository {
	return &receiptRepository{db: db.receipt}
}

func (repo *receiptRepository) SaveReceipt(ctx context.Context, r payment.Receipt) (payment.Receipt, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	r.ID = uuid.New().String()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	repo.db.t[r.ID] = &r
	return r, nil
}

func (repo *receiptRepository) query(studentID string) []payment.Receipt {
	receipts := make([]payment.Receipt, 0, len(repo.db.t))
	for _, r := range repo.db.t {
		if studentID != "" && r.StudentID != studentID {
			continue
		}
		receipts = append(receipts, *r)
	}
	sort.Slice(receipts, func(i, j int) bool { return receipts[i].CreatedAt.After(receipts[j].CreatedAt) })
	return receipts
}

func (repo *receiptRepository) ListStudentReceipts(ctx context.Context, studentID string) ([]payment.Receipt, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(studentID), nil
}

func (repo *receiptRepository) ListReceipts(ctx context.Context) ([]payment.Receipt, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(""), nil
}
