package main

import (
	"context"
	"time"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)

	std, err := cli.stdRepo.GetStudentByUSN(ctx, uname)
	if err == student.ErrNotFound {
		std, err = cli.stdRepo.GetStudentByEmail(ctx, uname)
	}
	if err != nil {
		return err
	}
	if err = std.SetPassword(pwd); err != nil {
		return err
	}
	std.UpdatedAt = time.Now().UTC()
	if _, err = cli.stdRepo.UpdateStudent(ctx, std); err != nil {
		return err
	}
	return nil
}
