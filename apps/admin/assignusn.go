package main

import (
	"context"
	"time"

	"github.com/trezcool/academia/core"
)

func (cli *commandLine) assignUSN(email, usn string) error {
	ctx := context.Background()

	std, err := cli.stdRepo.GetStudentByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	std.USN = core.CleanString(usn, true /* lower */)
	std.UpdatedAt = time.Now().UTC()
	if _, err = cli.stdRepo.UpdateStudent(ctx, std); err != nil {
		return err
	}
	return nil
}
