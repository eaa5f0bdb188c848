package registration_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/registration"
	dummydb "github.com/trezcool/academia/storage/database/dummy"
)

func setup(t *testing.T) (*registration.Service, *catalog.Service, func(catalog.Subject) catalog.Subject) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	subjRepo := dummydb.NewSubjectRepository(db)
	catalogSvc := catalog.NewService(subjRepo)
	svc := registration.NewService(dummydb.NewRegistrationRepository(db), catalogSvc)
	return svc, catalogSvc, subjRepo.AddSubject
}

func TestService_Append(t *testing.T) {
	svc, _, addSubject := setup(t)
	ctx := context.Background()

	maths := addSubject(catalog.Subject{Code: "21MAT11", Name: "Maths I", Credits: 4, Semester: 1, Department: "CSE"})

	rec, err := svc.Append(ctx, registration.Record{StudentID: "std", SubjectID: maths.ID, Semester: 1})
	assert.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, registration.TypeNormal, rec.Type) // defaulted
	assert.False(t, rec.CreatedAt.IsZero())

	// a second normal registration for the same key conflicts
	_, err = svc.Append(ctx, registration.Record{StudentID: "std", SubjectID: maths.ID, Semester: 1})
	assert.Equal(t, registration.ErrConflict, err)

	// non-normal records layer on top without conflict
	_, err = svc.Append(ctx, registration.Record{
		StudentID: "std", SubjectID: maths.ID, Semester: 1, Type: registration.TypeChallengeValuation,
	})
	assert.NoError(t, err)
}

func TestService_SetGrade(t *testing.T) {
	svc, _, addSubject := setup(t)
	ctx := context.Background()

	maths := addSubject(catalog.Subject{Code: "21MAT11", Name: "Maths I", Credits: 4, Semester: 1, Department: "CSE"})
	_, err := svc.Append(ctx, registration.Record{StudentID: "std", SubjectID: maths.ID, Semester: 1})
	assert.NoError(t, err)

	_, err = svc.SetGrade(ctx, "std", maths.ID, 1, "Z")
	assert.Equal(t, registration.ErrBadGrade, err)

	_, err = svc.SetGrade(ctx, "lol", maths.ID, 1, registration.GradeA)
	assert.Equal(t, registration.ErrNotFound, err)

	rec, err := svc.SetGrade(ctx, "std", maths.ID, 1, registration.GradeA)
	assert.NoError(t, err)
	assert.Equal(t, registration.GradeA, rec.Grade)
	assert.True(t, rec.ResultAnnounced)
	assert.False(t, rec.AnnouncedAt.IsZero())
}

func TestService_AnnounceResults(t *testing.T) {
	svc, _, addSubject := setup(t)
	ctx := context.Background()

	maths := addSubject(catalog.Subject{Code: "21MAT11", Name: "Maths I", Credits: 4, Semester: 1, Department: "CSE"})
	physics := addSubject(catalog.Subject{Code: "21PHY12", Name: "Physics", Credits: 3, Semester: 1, Department: "CSE"})

	_, err := svc.Append(ctx, registration.Record{StudentID: "std", SubjectID: maths.ID, Semester: 1})
	assert.NoError(t, err)
	_, err = svc.Append(ctx, registration.Record{StudentID: "std", SubjectID: physics.ID, Semester: 1})
	assert.NoError(t, err)

	_, err = svc.SetGrade(ctx, "std", maths.ID, 1, registration.GradeA)
	assert.NoError(t, err)

	at := time.Date(2021, 7, 1, 10, 0, 0, 0, time.UTC)
	assert.NoError(t, svc.AnnounceResults(ctx, "std", 1, at))

	graded, err := svc.GetNormal(ctx, "std", maths.ID, 1)
	assert.NoError(t, err)
	assert.True(t, graded.ResultAnnounced)
	assert.Equal(t, at, graded.AnnouncedAt)

	// the ungraded record is left alone
	ungraded, err := svc.GetNormal(ctx, "std", physics.ID, 1)
	assert.NoError(t, err)
	assert.False(t, ungraded.ResultAnnounced)
	assert.True(t, ungraded.AnnouncedAt.IsZero())
}

func TestService_SemesterResult(t *testing.T) {
	svc, _, addSubject := setup(t)
	ctx := context.Background()

	maths := addSubject(catalog.Subject{Code: "21MAT11", Name: "Maths I", Credits: 4, Semester: 1, Department: "CSE"})
	physics := addSubject(catalog.Subject{Code: "21PHY12", Name: "Physics", Credits: 3, Semester: 1, Department: "CSE"})
	labs := addSubject(catalog.Subject{Code: "21CSL13", Name: "Labs", Credits: 2, Semester: 1, Department: "CSE"})

	for _, subj := range []catalog.Subject{maths, physics, labs} {
		_, err := svc.Append(ctx, registration.Record{StudentID: "std", SubjectID: subj.ID, Semester: 1})
		assert.NoError(t, err)
	}
	_, err := svc.SetGrade(ctx, "std", maths.ID, 1, registration.GradeA)
	assert.NoError(t, err)
	_, err = svc.SetGrade(ctx, "std", physics.ID, 1, registration.GradeF)
	assert.NoError(t, err)
	// labs result not announced yet

	res, err := svc.SemesterResult(ctx, "std", 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Semester)
	assert.Len(t, res.Subjects, 2)

	// ordered by subject code: 21MAT11 before 21PHY12
	assert.Equal(t, maths.ID, res.Subjects[0].Subject.ID)
	assert.Equal(t, []registration.Action{registration.ActionChallengeValuation}, res.Subjects[0].Actions)

	assert.Equal(t, physics.ID, res.Subjects[1].Subject.ID)
	assert.Equal(t, []registration.Action{registration.ActionReregisterFailed}, res.Subjects[1].Actions)

	// (4*8 + 3*0) / 7 = 4.5714... -> 4.57
	assert.Equal(t, 4.57, res.SGPA)
}
