package registration

import (
	"context"
	"time"

	"github.com/trezcool/academia/core/catalog"
)

type (
	Repository interface {
		// AppendRecord inserts rec. It fails with ErrConflict when a normal-type
		// record already exists for the same (student, subject, semester).
		AppendRecord(ctx context.Context, rec Record) (Record, error)
		// ListStudentRecords returns all of the student's records, optionally
		// narrowed to one semester, ordered by (semester, subject code).
		ListStudentRecords(ctx context.Context, studentID string, semester ...int) ([]Record, error)
		// GetNormalRecord fetches the single normal-type record for the key, or
		// ErrNotFound.
		GetNormalRecord(ctx context.Context, studentID, subjectID string, semester int) (Record, error)
		UpdateRecord(ctx context.Context, rec Record) (Record, error)
	}

	// Service is the registration ledger: the single source of truth for who
	// attempted what, when, and with which outcome.
	Service struct {
		repo       Repository
		catalogSvc *catalog.Service
	}
)

var nowFunc = time.Now // mockable

func NewService(repo Repository, catalogSvc *catalog.Service) *Service {
	return &Service{repo: repo, catalogSvc: catalogSvc}
}

func (svc *Service) ListForStudent(ctx context.Context, studentID string, semester ...int) ([]Record, error) {
	return svc.repo.ListStudentRecords(ctx, studentID, semester...)
}

func (svc *Service) GetNormal(ctx context.Context, studentID, subjectID string, semester int) (Record, error) {
	return svc.repo.GetNormalRecord(ctx, studentID, subjectID, semester)
}

// Append inserts a new record; duplicates of an existing normal registration
// fail with ErrConflict.
func (svc *Service) Append(ctx context.Context, rec Record) (Record, error) {
	if rec.Type == "" {
		rec.Type = TypeNormal
	}
	rec.CreatedAt = nowFunc().UTC()
	return svc.repo.AppendRecord(ctx, rec)
}

// SetGrade records the admin-entered grade on the student's normal record and
// announces the result immediately.
func (svc *Service) SetGrade(ctx context.Context, studentID, subjectID string, semester int, grade Grade) (Record, error) {
	if !grade.IsGraded() {
		return Record{}, ErrBadGrade
	}
	rec, err := svc.repo.GetNormalRecord(ctx, studentID, subjectID, semester)
	if err != nil {
		return Record{}, err
	}
	rec.Grade = grade
	rec.ResultAnnounced = true
	rec.AnnouncedAt = nowFunc().UTC()
	return svc.repo.UpdateRecord(ctx, rec)
}

// AnnounceResults re-stamps the announcement time of every graded normal
// record the student holds for the semester. Ungraded records are left alone.
func (svc *Service) AnnounceResults(ctx context.Context, studentID string, semester int, at time.Time) error {
	recs, err := svc.repo.ListStudentRecords(ctx, studentID, semester)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if rec.Type != TypeNormal || !rec.Grade.IsGraded() {
			continue
		}
		rec.ResultAnnounced = true
		rec.AnnouncedAt = at.UTC()
		if _, err := svc.repo.UpdateRecord(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// SubjectResult pairs a record with its resolved catalog entry.
type SubjectResult struct {
	Record  Record          `json:"record"`
	Subject catalog.Subject `json:"subject"`
	Actions []Action        `json:"actions"`
}

// SemesterResult is what the student sees on the results page.
type SemesterResult struct {
	Semester int             `json:"semester"`
	Subjects []SubjectResult `json:"subjects"`
	SGPA     float64         `json:"sgpa"`
}

// SemesterResult assembles the announced results for one semester along with
// the SGPA and the paid actions each record is currently eligible for.
func (svc *Service) SemesterResult(ctx context.Context, studentID string, semester int) (SemesterResult, error) {
	recs, err := svc.repo.ListStudentRecords(ctx, studentID, semester)
	if err != nil {
		return SemesterResult{}, err
	}

	res := SemesterResult{Semester: semester}
	credits := make(map[string]int, len(recs))

	resolver := svc.catalogSvc.Resolver()
	for _, rec := range recs {
		if rec.Type != TypeNormal || !rec.ResultAnnounced {
			continue
		}
		subj, err := resolver.Get(ctx, rec.SubjectID)
		if err != nil {
			return SemesterResult{}, err
		}
		credits[subj.ID] = subj.Credits
		res.Subjects = append(res.Subjects, SubjectResult{
			Record:  rec,
			Subject: subj,
			Actions: Evaluate(rec),
		})
	}

	res.SGPA = ComputeSGPA(recs, credits)
	return res, nil
}
