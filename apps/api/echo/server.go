package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/faculty"
	"github.com/trezcool/academia/core/payment"
	"github.com/trezcool/academia/core/registration"
	"github.com/trezcool/academia/core/student"
)

type (
	ServerDeps struct {
		Conf            *core.Config
		Logger          core.Logger
		CatalogSvc      *catalog.Service
		RegistrationSvc *registration.Service
		PaymentSvc      *payment.Service
		FacultySvc      *faculty.Service
		StudentSvc      *student.Service
		Validate        *validator.Validate
		Translator      ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps   ServerDeps
		app    *echo.Echo
		jwt    echo.MiddlewareFunc
		errCh  chan error
		shutCh chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:   deps,
		app:    echo.New(),
		errCh:  make(chan error, 1),
		shutCh: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutCh, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, func() { s.shutCh <- syscall.SIGTERM })
	s.app.Debug = conf.Debug

	s.jwt = middleware.JWTWithConfig(appJWTConfig(conf))

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	s.registerStudentAPI(v1)
	s.registerAdminAPI(v1)
}

func (s *server) Start() {
	s.errCh <- s.app.Start(s.deps.Conf.Server.Host)
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errCh
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutCh
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Academia API!")
}
