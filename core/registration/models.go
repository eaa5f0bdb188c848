package registration

import (
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound   = errors.New("registration record not found")
	ErrConflict   = errors.New("subject already registered for this semester")
	ErrIneligible = errors.New("action not available for this registration record")
	ErrBadGrade   = errors.New("unknown grade")
)

// Grade is one of the fixed grade letters awarded after evaluation.
// The empty string means the record has not been graded yet.
type Grade string

const (
	GradeO     Grade = "O"
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeP     Grade = "P"
	GradeF     Grade = "F"
	GradeNE    Grade = "NE" // not eligible for the semester-end exam
	GradeW     Grade = "W"  // withdrawn
)

var gradePoints = map[Grade]int{
	GradeO:     10,
	GradeAPlus: 9,
	GradeA:     8,
	GradeBPlus: 7,
	GradeB:     6,
	GradeC:     5,
	GradeP:     4,
	GradeF:     0,
	GradeNE:    0,
	GradeW:     0,
}

// Points returns the grade-point value of g. ok is false for the empty grade
// and for letters outside the grade table.
func (g Grade) Points() (points int, ok bool) {
	points, ok = gradePoints[g]
	return points, ok
}

func (g Grade) IsGraded() bool {
	_, ok := gradePoints[g]
	return ok
}

// LegendRow maps a grade letter to its marks range for display. PP and NP only
// ever appear in the legend; they are never awarded on records.
type LegendRow struct {
	Grade string `json:"grade"`
	Range string `json:"range"`
}

// GradeLegend is the grading-system table shown alongside results.
var GradeLegend = []LegendRow{
	{Grade: "O", Range: "90-100"},
	{Grade: "A+", Range: "80-89"},
	{Grade: "A", Range: "70-79"},
	{Grade: "B+", Range: "60-69"},
	{Grade: "B", Range: "55-59"},
	{Grade: "C", Range: "50-54"},
	{Grade: "P", Range: "40-49"},
	{Grade: "F", Range: "0-39"},
	{Grade: "PP", Range: ">= 40"},
	{Grade: "NP", Range: "0-39"},
	{Grade: "NE", Range: "SEE NOT ELIGIBLE"},
	{Grade: "W", Range: "Withdraw"},
}

// Type tags how a registration record was created.
type Type string

const (
	TypeNormal              Type = "normal"
	TypeChallengeValuation  Type = "challenge-valuation"
	TypeReregisterFailed    Type = "reregister-failed"
	TypeReregisterWithdrawn Type = "reregister-withdrawn"
)

// Record is one student's attempt at one subject in one semester. Records are
// never deleted; paid actions layer extra records (by Type) on top of the
// graded normal one.
type Record struct {
	ID              string    `json:"id"`
	StudentID       string    `json:"student_id"`
	SubjectID       string    `json:"subject_id"`
	Semester        int       `json:"semester"`
	Type            Type      `json:"type"`
	Grade           Grade     `json:"grade,omitempty"`
	FacultyID       string    `json:"faculty_id,omitempty"` // re-registration only
	ResultAnnounced bool      `json:"result_announced"`
	AnnouncedAt     time.Time `json:"announced_at,omitempty"` // UTC
	CreatedAt       time.Time `json:"created_at"`             // UTC
}
