package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/academia/core/student"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sql.DB
	stdRepo student.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run database migrations (up, down, status, ...)")
	fmt.Println("  addstudent -name NAME -email EMAIL -department DEPARTMENT - create a student account; the password is prompted next")
	fmt.Println("  resetpassword -username USN|EMAIL - reset a student's password")
	fmt.Println("  assignusn -email EMAIL -usn USN - issue a student's USN")
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addStudentCmd := flag.NewFlagSet("addstudent", flag.ExitOnError)
	addStudentName := addStudentCmd.String("name", "", "The student's full name.")
	addStudentEmail := addStudentCmd.String("email", "", "The student's email.")
	addStudentDept := addStudentCmd.String("department", "", "The student's department.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The student's USN or email. The password will be prompted next.")

	assignUSNCmd := flag.NewFlagSet("assignusn", flag.ExitOnError)
	assignUSNEmail := assignUSNCmd.String("email", "", "The student's email.")
	assignUSNValue := assignUSNCmd.String("usn", "", "The USN to issue.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "addstudent":
		if err := addStudentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addStudentName == "" || *addStudentEmail == "" || *addStudentDept == "" {
			addStudentCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addStudentCmd.Usage()
			return errHelp
		}
		return cli.addStudent(*addStudentName, *addStudentEmail, *addStudentDept, pwd)

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordUname, pwd)

	case "assignusn":
		if err := assignUSNCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *assignUSNEmail == "" || *assignUSNValue == "" {
			assignUSNCmd.Usage()
			return errHelp
		}
		return cli.assignUSN(*assignUSNEmail, *assignUSNValue)

	default:
		cli.printUsage()
		return errHelp
	}
}
