// Package demoapi is an in-memory stand-in for the remote user-data service.
// It serves the same HTTP contract the console talks to and is used for local
// runs (cmd/demoapi) and end-to-end tests of the API client.
package demoapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/userconsole/internal/client/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/lo"
	sloghttp "github.com/samber/slog-http"
)

const (
	DefaultPerPage  = 6
	DefaultBasePath = "/api"
)

// Options configures a Server. Zero values pick the defaults.
type Options struct {
	BasePath string
	PerPage  int
	// Users seeds the store; nil means SeedUsers().
	Users []models.User
	// APIKey, when set, must be present in the x-api-key header.
	APIKey string
	// RequireToken rejects /users calls without a bearer token issued by /login.
	RequireToken bool
	Logger       *slog.Logger
	Now          func() time.Time
}

type Server struct {
	mu     sync.Mutex
	users  []models.User
	tokens map[string]string

	opts Options
	echo *echo.Echo
}

func New(opts Options) *Server {
	if opts.BasePath == "" {
		opts.BasePath = DefaultBasePath
	}
	if opts.PerPage <= 0 {
		opts.PerPage = DefaultPerPage
	}
	if opts.Users == nil {
		opts.Users = SeedUsers()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		users:  append([]models.User(nil), opts.Users...),
		tokens: make(map[string]string),
		opts:   opts,
	}
	s.echo = s.routes()
	return s
}

// Handler exposes the server for http.Server or httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until the server is shut down.
func (s *Server) Start(addr string) error {
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops the listener started by Start.
func (s *Server) Close() error {
	return s.echo.Close()
}

// Users returns a copy of the current store, ordered by id.
func (s *Server) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...)
}

type requestValidator struct {
	v *validator.Validate
}

func (rv *requestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{v: validator.New()}

	e.Use(echo.WrapMiddleware(sloghttp.New(s.opts.Logger)))
	e.Use(middleware.Recover())

	g := e.Group(s.opts.BasePath, s.apiKeyMiddleware)
	g.POST("/login", s.handleLogin)

	users := g.Group("/users", s.tokenMiddleware)
	users.GET("", s.handleListUsers)
	users.GET("/:id", s.handleGetUser)
	users.PUT("/:id", s.handleUpdateUser)
	users.DELETE("/:id", s.handleDeleteUser)

	return e
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

func (s *Server) apiKeyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.opts.APIKey != "" && c.Request().Header.Get("x-api-key") != s.opts.APIKey {
			return errorJSON(c, http.StatusUnauthorized, "Missing API key")
		}
		return next(c)
	}
}

func (s *Server) tokenMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.opts.RequireToken {
			return next(c)
		}
		tok, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
		s.mu.Lock()
		_, known := s.tokens[tok]
		s.mu.Unlock()
		if !ok || !known {
			return errorJSON(c, http.StatusUnauthorized, "invalid token")
		}
		return next(c)
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Field() == "Email" {
			return errorJSON(c, http.StatusBadRequest, "Missing email or username")
		}
		return errorJSON(c, http.StatusBadRequest, "Missing password")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := lo.Find(s.users, func(u models.User) bool { return strings.EqualFold(u.Email, req.Email) }); !ok {
		return errorJSON(c, http.StatusBadRequest, "user not found")
	}

	tok := strings.ReplaceAll(uuid.NewString(), "-", "")
	s.tokens[tok] = req.Email
	return c.JSON(http.StatusOK, map[string]string{"token": tok})
}

func (s *Server) handleListUsers(c echo.Context) error {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	per := s.opts.PerPage
	total := len(s.users)
	totalPages := max(1, (total+per-1)/per)
	start := (page - 1) * per

	return c.JSON(http.StatusOK, models.UserPage{
		Page:       page,
		PerPage:    per,
		Total:      total,
		TotalPages: totalPages,
		Items:      lo.Slice(s.users, start, start+per),
	})
}

func userID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil
}

// indexOf must be called with s.mu held.
func (s *Server) indexOf(id int) int {
	_, idx, ok := lo.FindIndexOf(s.users, func(u models.User) bool { return u.ID == id })
	if !ok {
		return -1
	}
	return idx
}

func (s *Server) handleGetUser(c echo.Context) error {
	id, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, struct{}{})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return c.JSON(http.StatusNotFound, struct{}{})
	}
	return c.JSON(http.StatusOK, map[string]models.User{"data": s.users[idx]})
}

type updateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (s *Server) handleUpdateUser(c echo.Context) error {
	id, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, struct{}{})
	}
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return c.JSON(http.StatusNotFound, struct{}{})
	}
	u := &s.users[idx]
	u.FirstName, u.LastName, u.Email = req.FirstName, req.LastName, req.Email

	return c.JSON(http.StatusOK, map[string]string{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"email":      req.Email,
		"updatedAt":  s.opts.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) handleDeleteUser(c echo.Context) error {
	id, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, struct{}{})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return c.JSON(http.StatusNotFound, struct{}{})
	}
	s.users = append(s.users[:idx], s.users[idx+1:]...)
	return c.NoContent(http.StatusNoContent)
}
