package main

import (
	"database/sql"

	"github.com/pressly/goose/v3"

	appfs "github.com/devanshuyeole/college-event-hub/fs"
)

var gooseRunFunc = goose.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	var arguments []string
	if len(args) > 1 {
		arguments = args[1:]
	}
	return gooseRunFunc(args[0], cli.gooseDB(), "migrations", arguments...)
}

func (cli *commandLine) gooseDB() *sql.DB {
	return cli.db.DB
}
