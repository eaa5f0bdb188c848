package registration

// Action is a paid transition a student may request on a graded record.
type Action string

const (
	ActionChallengeValuation  Action = "challenge-valuation"
	ActionReregisterFailed    Action = "reregister-failed"
	ActionReregisterWithdrawn Action = "reregister-withdrawn"
)

// Contains reports whether a is one of the evaluated actions.
func Contains(actions []Action, a Action) bool {
	for _, act := range actions {
		if act == a {
			return true
		}
	}
	return false
}

// Evaluate returns the paid actions currently permitted on rec.
//
// Nothing is offered before the result is announced, and paid actions only
// layer on top of normal-type records. An O grade needs no challenge and NE is
// excluded from valuation by policy; both NE and W lead to re-registration of
// the withdrawn kind, which additionally requires a faculty assignment before
// the paid transition can be requested. F leads to re-registration of the
// failed kind only. Any other grade from the table may be challenged.
func Evaluate(rec Record) []Action {
	if rec.Type != TypeNormal {
		return nil
	}
	if !rec.ResultAnnounced || !rec.Grade.IsGraded() {
		return nil
	}

	switch rec.Grade {
	case GradeO:
		return nil
	case GradeF:
		return []Action{ActionReregisterFailed}
	case GradeNE, GradeW:
		return []Action{ActionReregisterWithdrawn}
	default:
		return []Action{ActionChallengeValuation}
	}
}
