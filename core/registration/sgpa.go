package registration

import "math"

// ComputeSGPA returns the credit-weighted grade-point average for the given
// records, rounded to two decimals.
//
// Only normal-type records with an announced grade from the grade table count.
// A W grade contributes 0 points but its credits stay in the denominator: a
// withdrawn subject drags the average down, it is not excluded. With nothing
// to average (or zero total credits) the result is 0 rather than an error.
func ComputeSGPA(records []Record, credits map[string]int) float64 {
	var totalPoints, totalCredits int
	for _, rec := range records {
		if rec.Type != TypeNormal || !rec.ResultAnnounced {
			continue
		}
		points, ok := rec.Grade.Points()
		if !ok {
			continue
		}
		credit := credits[rec.SubjectID]
		totalPoints += credit * points
		totalCredits += credit
	}
	if totalCredits == 0 {
		return 0
	}
	return math.Round(float64(totalPoints)/float64(totalCredits)*100) / 100
}
