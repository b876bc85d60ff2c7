package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/testxbusiness/csromawebapp/apps/api/echo"
	"github.com/testxbusiness/csromawebapp/core"
	"github.com/testxbusiness/csromawebapp/core/balance"
	"github.com/testxbusiness/csromawebapp/core/club"
	"github.com/testxbusiness/csromawebapp/core/event"
	"github.com/testxbusiness/csromawebapp/core/fee"
	"github.com/testxbusiness/csromawebapp/core/message"
	"github.com/testxbusiness/csromawebapp/core/user"
	emailsvc "github.com/testxbusiness/csromawebapp/services/email"
	logsvc "github.com/testxbusiness/csromawebapp/services/logger"
	"github.com/testxbusiness/csromawebapp/storage/database"
	sqlxrepos "github.com/testxbusiness/csromawebapp/storage/database/sqlx"
)

const shutdownTimeout = 20 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()
	sdb := sqlx.NewDb(db, conf.Database.Engine)

	// repositories; the club repository also backs fee member listing,
	// message fan-out and balance season resolution
	userRepo := sqlxrepos.NewUserRepository(sdb)
	clubRepo := sqlxrepos.NewClubRepository(sdb)
	feeRepo := sqlxrepos.NewFeeRepository(sdb)
	eventRepo := sqlxrepos.NewEventRepository(sdb)
	messageRepo := sqlxrepos.NewMessageRepository(sdb)
	balanceRepo := sqlxrepos.NewBalanceRepository(sdb)

	var mailSvc core.EmailService
	switch {
	case conf.Debug:
		mailSvc = emailsvc.NewConsoleService(conf)
	case conf.SendgridApiKey != "":
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	default:
		mailSvc = emailsvc.NewSMTPService(conf, logger)
	}

	userSvc := user.NewService(conf, userRepo, mailSvc)
	clubSvc := club.NewService(clubRepo)
	feeSvc := fee.NewService(conf, feeRepo, clubRepo)
	eventSvc := event.NewService(conf, eventRepo)
	messageSvc := message.NewService(messageRepo, clubRepo, mailSvc, logger)
	balanceSvc := balance.NewService(balanceRepo, clubRepo)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(&echoapi.Options{
		Conf:       conf,
		Logger:     logger,
		UserSvc:    userSvc,
		ClubSvc:    clubSvc,
		FeeSvc:     feeSvc,
		EventSvc:   eventSvc,
		MessageSvc: messageSvc,
		BalanceSvc: balanceSvc,
		Validate:   validate,
		Translator: translator,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
	case <-server.Shutdown():
		logger.Info("fatal error: Start shutdown...")
	}

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = server.Stop(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
