package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/devanshuyeole/college-event-hub/core"
	"github.com/devanshuyeole/college-event-hub/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sqlx.DB
	conf    *core.Config
	usrRepo user.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - manage database migrations (up, down, status, ...)")
	fmt.Println("  addsuperadmin -name NAME -email EMAIL -college COLLEGE - create a super admin. The password will be prompted next.")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addCmd := flag.NewFlagSet("addsuperadmin", flag.ExitOnError)
	addName := addCmd.String("name", "", "The admin's full name.")
	addEmail := addCmd.String("email", "", "The admin's email address.")
	addCollege := addCmd.String("college", "", "The admin's college.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addsuperadmin":
		if err := addCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addName == "" || *addEmail == "" || *addCollege == "" {
			addCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addCmd.Usage()
			return errHelp
		}
		return cli.addSuperAdmin(*addName, *addEmail, *addCollege, string(pwd))
	default:
		cli.printUsage()
		return errHelp
	}
}
