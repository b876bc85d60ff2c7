package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/testxbusiness/csromawebapp/core"
	"github.com/testxbusiness/csromawebapp/core/balance"
	"github.com/testxbusiness/csromawebapp/core/club"
	"github.com/testxbusiness/csromawebapp/core/event"
	"github.com/testxbusiness/csromawebapp/core/fee"
	"github.com/testxbusiness/csromawebapp/core/message"
	"github.com/testxbusiness/csromawebapp/core/user"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool

		UserSvc    *user.Service
		ClubSvc    *club.Service
		FeeSvc     *fee.Service
		EventSvc   *event.Service
		MessageSvc *message.Service
		BalanceSvc *balance.Service

		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
		// Shutdown signals that a fatal error requested a graceful stop.
		Shutdown() <-chan struct{}
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan struct{}, 1),
	}
	initJWTConfig(opts.Conf)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	s.app.Use(metricsMiddleware())
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts)

	admin := v1.Group("/admin", jwt, adminMiddleware())
	registerAdminUserAPI(admin, s.opts)
	registerClubAPI(admin, s.opts)
	registerAthleteAPI(admin, s.opts)
	registerFeeAPI(admin, s.opts)
	registerEventAPI(admin, s.opts)
	registerMessageAPI(admin, s.opts)
	registerBalanceAPI(admin, s.opts)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Conf.Server.Address()))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// signalShutdown is passed to the error handler; a core.shutdown error
// triggers a graceful stop.
func (s *server) signalShutdown() {
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

// Shutdown exposes the shutdown signal for the main goroutine.
func (s *server) Shutdown() <-chan struct{} { return s.shutdown }

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Benvenuto nell'API di CS Roma!")
}
