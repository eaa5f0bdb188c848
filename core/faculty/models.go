package faculty

import "errors"

var (
	// errors
	ErrNotFound = errors.New("faculty not found")
)

// Faculty is a teaching staff member that can be assigned to a re-registered
// subject. The faculty portal owns the rest of its lifecycle.
type Faculty struct {
	ID         string `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	Email      string `json:"email" db:"email"`
	Department string `json:"department" db:"department"`
}
