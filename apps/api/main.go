package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/academia/apps/api/echo"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/faculty"
	"github.com/trezcool/academia/core/payment"
	"github.com/trezcool/academia/core/registration"
	"github.com/trezcool/academia/core/student"
	emailsvc "github.com/trezcool/academia/services/email"
	logsvc "github.com/trezcool/academia/services/logger"
	paysvc "github.com/trezcool/academia/services/payment"
	dummypay "github.com/trezcool/academia/services/payment/dummy"
	"github.com/trezcool/academia/storage/database"
	sqlxrepos "github.com/trezcool/academia/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	catalogSvc := catalog.NewService(sqlxrepos.NewSubjectRepository(db))
	regSvc := registration.NewService(sqlxrepos.NewRegistrationRepository(db), catalogSvc)
	facultySvc := faculty.NewService(sqlxrepos.NewFacultyRepository(db))
	studentSvc := student.NewService(sqlxrepos.NewStudentRepository(db), validate)

	// fall back to the fake provider when no Razorpay key is configured (local dev)
	var (
		orderSvc  payment.OrderService
		verifySvc payment.VerificationService
	)
	if conf.Razorpay.APIKey == "" {
		logger.Warn("no Razorpay key configured; using the dummy payment provider")
		dummy := dummypay.NewService(conf.SecretKey)
		orderSvc, verifySvc = dummy, dummy
	} else {
		rzp := paysvc.NewRazorpayService(conf, logger)
		orderSvc, verifySvc = rzp, rzp
	}
	paymentSvc := payment.NewService(
		sqlxrepos.NewReceiptRepository(db),
		orderSvc, verifySvc,
		catalogSvc, regSvc, facultySvc, studentSvc,
		mailSvc, conf, logger,
	)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:            conf,
			Logger:          logger,
			CatalogSvc:      catalogSvc,
			RegistrationSvc: regSvc,
			PaymentSvc:      paymentSvc,
			FacultySvc:      facultySvc,
			StudentSvc:      studentSvc,
			Validate:        validate,
			Translator:      translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
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

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
