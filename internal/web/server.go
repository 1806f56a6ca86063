package web

import (
	"context"
	"embed"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"pettingzoo/internal/config"
	"pettingzoo/internal/eventbus"
	"pettingzoo/internal/fetch"
	"pettingzoo/internal/oracle"
	"pettingzoo/internal/tool"
)

//go:embed static
var staticFS embed.FS

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultRatePerMinute = 10

// Deps are the collaborators the web layer serves.
type Deps struct {
	Fetcher  *fetch.Client
	Checker  *fetch.Checker
	Registry *tool.Registry
	Resolver *oracle.Resolver // optional; keyword matching when nil
	Bus      *eventbus.Bus    // optional
}

// Server is the HTTP frontend: REST API, embedded page, websocket chat.
type Server struct {
	echo     *echo.Echo
	cfg      config.ServerConfig
	fetcher  *fetch.Client
	checker  *fetch.Checker
	registry *tool.Registry
	resolver *oracle.Resolver
	keyword  oracle.KeywordResolver
	bus      *eventbus.Bus
}

// New assembles the echo application. The REST animal endpoint talks
// to the fetcher directly; the websocket chat goes through the
// registry so every tool is reachable from the page.
func New(cfg config.ServerConfig, deps Deps) *Server {
	s := &Server{
		cfg:      cfg,
		fetcher:  deps.Fetcher,
		checker:  deps.Checker,
		registry: deps.Registry,
		resolver: deps.Resolver,
		bus:      deps.Bus,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Use(middleware.Recover())

	e.POST("/api/animal", s.handleAnimal, s.rateLimiter())
	e.GET("/api/health", s.handleHealth, s.rateLimiter())
	e.GET("/api/animals", s.handleAnimals)
	e.GET("/ws", s.handleWS)
	e.StaticFS("/", echo.MustSubFS(staticFS, "static"))

	s.echo = e
	return s
}

// Start serves until the listener closes.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	log.Printf("[web] listening on %s", addr)
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// rateLimiter budgets requests per client IP. Each route gets its own
// store. Exceeding the budget answers 429 with a Retry-After hint,
// same shape as an upstream rate limit.
func (s *Server) rateLimiter() echo.MiddlewareFunc {
	per := s.cfg.RatePerMinute
	if per <= 0 {
		per = defaultRatePerMinute
	}
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(per) / 60.0),
			Burst:     per,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			c.Response().Header().Set("Retry-After", "60")
			return c.JSON(http.StatusTooManyRequests, ErrorResponse{
				Error:      "Rate limit exceeded. Please try again later.",
				RetryAfter: 60,
			})
		},
	})
}

// jsonSerializer plugs jsoniter into echo.
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i any, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i any) error {
	if err := json.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body").SetInternal(err)
	}
	return nil
}
