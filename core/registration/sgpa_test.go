package registration

import "testing"

func TestComputeSGPA(t *testing.T) {
	credits := map[string]int{
		"maths":   4,
		"physics": 3,
		"labs":    2,
	}

	rec := func(subjID string, grade Grade, announced bool, typ ...Type) Record {
		r := Record{
			StudentID:       "std",
			SubjectID:       subjID,
			Semester:        1,
			Type:            TypeNormal,
			Grade:           grade,
			ResultAnnounced: announced,
		}
		if len(typ) > 0 {
			r.Type = typ[0]
		}
		return r
	}

	tests := []struct {
		name    string
		records []Record
		want    float64
	}{
		{name: "no records", want: 0},
		{
			name:    "single subject",
			records: []Record{rec("maths", GradeA, true)},
			want:    8,
		},
		{
			name: "credit-weighted average",
			// (4*8 + 3*7) / 7 = 7.5714... -> 7.57
			records: []Record{rec("maths", GradeA, true), rec("physics", GradeBPlus, true)},
			want:    7.57,
		},
		{
			name: "withdrawn keeps its credits in the denominator",
			// (4*8 + 3*0) / 7 = 4.5714... -> 4.57
			records: []Record{rec("maths", GradeA, true), rec("physics", GradeW, true)},
			want:    4.57,
		},
		{
			name:    "only withdrawn",
			records: []Record{rec("maths", GradeW, true)},
			want:    0,
		},
		{
			name:    "unannounced results do not count",
			records: []Record{rec("maths", GradeA, true), rec("physics", GradeBPlus, false)},
			want:    8,
		},
		{
			name:    "ungraded records do not count",
			records: []Record{rec("maths", GradeA, true), rec("physics", "", true)},
			want:    8,
		},
		{
			name: "non-normal records do not count",
			records: []Record{
				rec("maths", GradeA, true),
				rec("physics", GradeF, true, TypeReregisterFailed),
			},
			want: 8,
		},
		{
			name:    "unknown subject carries no credits",
			records: []Record{rec("maths", GradeA, true), rec("lol", GradeO, true)},
			want:    8,
		},
		{
			name: "order does not matter",
			records: []Record{
				rec("physics", GradeBPlus, true),
				rec("labs", GradeO, true),
				rec("maths", GradeA, true),
			},
			// (3*7 + 2*10 + 4*8) / 9 = 8.111... -> 8.11
			want: 8.11,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeSGPA(tt.records, credits); got != tt.want {
				t.Errorf("ComputeSGPA() = %v, want %v", got, tt.want)
			}
		})
	}
}
