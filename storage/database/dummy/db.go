package dummydb

import (
	"sync"

	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/faculty"
	"github.com/trezcool/academia/core/payment"
	"github.com/trezcool/academia/core/registration"
	"github.com/trezcool/academia/core/student"
)

type (
	DB struct {
		subject      *subjectTable
		student      *studentTable
		faculty      *facultyTable
		registration *registrationTable
		receipt      *receiptTable
	}

	subjectTable struct {
		t map[string]*catalog.Subject
		sync.RWMutex
	}

	studentTable struct {
		t map[string]*student.Student
		sync.RWMutex
	}

	facultyTable struct {
		t map[string]*faculty.Faculty
		sync.RWMutex
	}

	registrationTable struct {
		t map[string]*registration.Record
		sync.RWMutex
	}

	receiptTable struct {
		t map[string]*payment.Receipt
		sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		subject:      &subjectTable{t: make(map[string]*catalog.Subject)},
		student:      &studentTable{t: make(map[string]*student.Student)},
		faculty:      &facultyTable{t: make(map[string]*faculty.Faculty)},
		registration: &registrationTable{t: make(map[string]*registration.Record)},
		receipt:      &receiptTable{t: make(map[string]*payment.Receipt)},
	}
	return db, nil
}
