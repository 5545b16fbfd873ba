package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	echoapi "github.com/trezcool/kelasi/apps/api/echo"
	"github.com/trezcool/kelasi/core"
	"github.com/trezcool/kelasi/core/absence"
	"github.com/trezcool/kelasi/core/schedule"
	"github.com/trezcool/kelasi/core/user"
	emailsvc "github.com/trezcool/kelasi/services/email"
	logsvc "github.com/trezcool/kelasi/services/logger"
	inmemdb "github.com/trezcool/kelasi/storage/database/inmem"
	sessionstore "github.com/trezcool/kelasi/storage/session"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up logger
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := inmemdb.Open()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	db.Seed()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	var sessions user.SessionStore
	if conf.Debug {
		sessions = sessionstore.NewInMemStore()
	} else {
		sessions = sessionstore.NewRedisStore(conf)
	}

	usrRepo := inmemdb.NewUserRepository(db)
	absRepo := inmemdb.NewAbsenceRepository(db)
	classRepo := inmemdb.NewScheduleRepository(db)

	usrSvc := user.NewService(usrRepo, sessions)
	scheduleSvc := schedule.NewService(classRepo)
	absenceSvc := absence.NewService(absRepo, usrRepo, classRepo, mailSvc, conf, uuid.NewString)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	absence.InitValidators(validate, translator)
	schedule.InitValidators(validate, translator)

	if !sessionstore.Healthy(context.Background(), sessions) {
		logger.Warn("session store unreachable; sessions will not survive restarts")
	}
	if usr, err := usrSvc.Restore(context.Background()); err == nil {
		logger.Info(fmt.Sprintf("restored session for %s", usr.Email))
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			UserSvc:     usrSvc,
			AbsenceSvc:  absenceSvc,
			ScheduleSvc: scheduleSvc,
			Validate:    validate,
			Translator:  translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
