package registration

import (
	"reflect"
	"testing"
)

func TestEvaluate(t *testing.T) {
	rec := func(grade Grade, announced bool, typ Type) Record {
		return Record{
			StudentID:       "std",
			SubjectID:       "maths",
			Semester:        1,
			Type:            typ,
			Grade:           grade,
			ResultAnnounced: announced,
		}
	}

	tests := []struct {
		name string
		rec  Record
		want []Action
	}{
		{name: "unannounced", rec: rec(GradeA, false, TypeNormal)},
		{name: "ungraded", rec: rec("", true, TypeNormal)},
		{name: "unknown grade", rec: rec("Z", true, TypeNormal)},
		{name: "non-normal record", rec: rec(GradeF, true, TypeReregisterFailed)},
		{name: "O needs nothing", rec: rec(GradeO, true, TypeNormal)},
		{name: "F", rec: rec(GradeF, true, TypeNormal), want: []Action{ActionReregisterFailed}},
		{name: "NE", rec: rec(GradeNE, true, TypeNormal), want: []Action{ActionReregisterWithdrawn}},
		{name: "W", rec: rec(GradeW, true, TypeNormal), want: []Action{ActionReregisterWithdrawn}},
		{name: "A+ may be challenged", rec: rec(GradeAPlus, true, TypeNormal), want: []Action{ActionChallengeValuation}},
		{name: "P may be challenged", rec: rec(GradeP, true, TypeNormal), want: []Action{ActionChallengeValuation}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.rec); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	actions := []Action{ActionChallengeValuation}
	if !Contains(actions, ActionChallengeValuation) {
		t.Error("Contains() = false, want true")
	}
	if Contains(actions, ActionReregisterFailed) {
		t.Error("Contains() = true, want false")
	}
	if Contains(nil, ActionChallengeValuation) {
		t.Error("Contains(nil) = true, want false")
	}
}
