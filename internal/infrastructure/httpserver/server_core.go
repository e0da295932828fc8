package httpserver

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
	customMiddleware "github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type ServerDeps struct {
	CategoryService    ports.CategoryService
	BookService        ports.BookService
	BookListService    ports.BookListService
	FeedService        ports.FeedService
	UserService        ports.UserService
	AuthService        ports.AuthService
	RateLimiterService ports.RateLimiterService
	CacheInvalidator   ports.CacheInvalidator
	HealthCheckers     []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	categories     ports.CategoryService
	books          ports.BookService
	bookLists      ports.BookListService
	feed           ports.FeedService
	userService    ports.UserService
	authSvc        ports.AuthService
	cache          ports.CacheInvalidator
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

// requestValidator runs the Validate method of ozzo-validatable request types.
type requestValidator struct{}

func (requestValidator) Validate(i interface{}) error {
	if v, ok := i.(validation.Validatable); ok {
		return v.Validate()
	}
	return nil
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = requestValidator{}

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		categories:     deps.CategoryService,
		books:          deps.BookService,
		bookLists:      deps.BookListService,
		feed:           deps.FeedService,
		userService:    deps.UserService,
		authSvc:        deps.AuthService,
		cache:          deps.CacheInvalidator,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.AuthService,
			deps.UserService,
			deps.RateLimiterService,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
