package main

import (
	"context"
	"time"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
)

// addStudent creates a student account with an unassigned USN; the USN is
// issued separately once the student's documents check out.
func (cli *commandLine) addStudent(name, email, dept, pwd string) error {
	ctx := context.Background()
	now := time.Now().UTC()

	std := student.Student{
		USN:             student.UnassignedUSN,
		Name:            core.CleanString(name),
		Email:           core.CleanString(email, true /* lower */),
		Department:      core.CleanString(dept),
		CurrentSemester: 1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := std.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.stdRepo.CreateStudent(ctx, std); err != nil {
		return err
	}
	return nil
}
