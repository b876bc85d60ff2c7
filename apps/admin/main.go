package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/testxbusiness/csromawebapp/core"
	"github.com/testxbusiness/csromawebapp/core/fee"
	"github.com/testxbusiness/csromawebapp/storage/database"
	sqlxrepos "github.com/testxbusiness/csromawebapp/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()
	errAndDie(db.Ping())

	sdb := sqlx.NewDb(db, conf.Database.Engine)
	clubRepo := sqlxrepos.NewClubRepository(sdb)

	// start CLI
	cli := commandLine{
		db:      db,
		usrRepo: sqlxrepos.NewUserRepository(sdb),
		feeSvc:  fee.NewService(conf, sqlxrepos.NewFeeRepository(sdb), clubRepo),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
