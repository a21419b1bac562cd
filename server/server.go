// Package server implements the QuickList sync server: the remote
// relational store the client adapter talks to, scoped per user.
package server

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"

	"github.com/quicklist/quicklist/internal/logger"
)

// Server is the sync server
type Server struct {
	db   *sql.DB
	echo *echo.Echo
}

// New creates a new server
func New(dbURL string) (*Server, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &Server{db: db}

	if err := s.migrate(); err != nil {
		return nil, err
	}

	s.setupEcho()
	return s, nil
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			res := c.Response()
			logger.Info("HTTP request",
				logger.F("method", req.Method),
				logger.F("uri", req.RequestURI),
				logger.F("status", res.Status),
				logger.F("duration", time.Since(start).String()))
			return err
		}
	})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	e.GET("/health", s.handleHealth)

	api := e.Group("/api/v1")

	// Auth endpoints (public)
	api.POST("/register", s.handleRegister)
	api.POST("/login", s.handleLogin)

	// Protected endpoints
	protected := api.Group("")
	protected.Use(s.authMiddleware)
	protected.GET("/me", s.handleMe)
	protected.POST("/logout", s.handleLogout)

	protected.GET("/snapshot", s.handleSnapshot)

	protected.POST("/lists", s.handleUpsertList)
	protected.PUT("/lists/:id", s.handleUpsertList)
	protected.DELETE("/lists/:id", s.handleDeleteList)

	protected.POST("/items", s.handleUpsertItem)
	protected.PUT("/items/:id", s.handleUpsertItem)
	protected.DELETE("/items/:id", s.handleDeleteItem)

	protected.POST("/categories", s.handleUpsertCategory)
	protected.PUT("/categories/:id", s.handleUpsertCategory)
	protected.DELETE("/categories/:id", s.handleDeleteCategory)

	s.echo = e
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Close closes the database connection
func (s *Server) Close() error {
	return s.db.Close()
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
