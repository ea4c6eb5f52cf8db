package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/election-portal/internal/config"
	"github.com/gravadigital/election-portal/internal/handlers"
	"github.com/gravadigital/election-portal/internal/logger"
	"github.com/gravadigital/election-portal/internal/middleware/auth"
	"github.com/gravadigital/election-portal/internal/middleware/requestlog"
	"github.com/gravadigital/election-portal/internal/services"
	"github.com/gravadigital/election-portal/internal/storage/portraits"
	"github.com/gravadigital/election-portal/internal/storage/postgres"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	handlers   Handlers
	verifier   *auth.Verifier
	health     func(ctx context.Context) error
}

// Handlers groups the route handlers
type Handlers struct {
	Positions  *handlers.PositionHandler
	Candidates *handlers.CandidateHandler
	Election   *handlers.ElectionHandler
	Votes      *handlers.VoteHandler
}

// New creates a new server instance backed by the postgres container
func New(cfg *config.Config, store *postgres.Container, portraitStore portraits.Store) *Server {
	positions := services.NewPositionService(store)
	candidates := services.NewCandidateService(store)
	election := services.NewElectionService(store, store.Stats())
	ballots := services.NewBallotService(store)
	results := services.NewResultsService(store)

	h := Handlers{
		Positions:  handlers.NewPositionHandler(positions),
		Candidates: handlers.NewCandidateHandler(candidates, portraitStore),
		Election:   handlers.NewElectionHandler(election),
		Votes:      handlers.NewVoteHandler(ballots, results),
	}
	return NewWithHandlers(cfg, h, store.Health)
}

// NewWithHandlers creates a server from prebuilt handlers. health may be nil.
func NewWithHandlers(cfg *config.Config, h Handlers, health func(ctx context.Context) error) *Server {
	return &Server{
		config:   cfg,
		handlers: h,
		verifier: auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		health:   health,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: s.Router(),

		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// Router configures the HTTP router with middleware and routes
func (s *Server) Router() *gin.Engine {
	if s.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if s.config.Server.GinMode != "" {
		gin.SetMode(s.config.Server.GinMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = 8 << 20

	router.Use(requestlog.New())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = s.config.AllowedOrigins()
	corsConfig.AllowMethods = s.config.AllowedMethods()
	corsConfig.AllowHeaders = s.config.AllowedHeaders()
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.GET("/ping", s.ping)

	s.setupAPIRoutes(router)

	return router
}

func (s *Server) ping(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"message": "Election API is running",
		"status":  "healthy",
	}
	if s.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := s.health(ctx); err != nil {
			logger.HTTP().Warn("Health check failed", "error", err)
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
		}
	}
	c.JSON(status, body)
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(router *gin.Engine) {
	authenticated := auth.Required(s.verifier)
	admin := auth.RequireRole(auth.RoleAdmin)
	h := s.handlers

	api := router.Group("/api", authenticated)
	{
		positions := api.Group("/positions")
		{
			positions.GET("", h.Positions.ListPositions)
			positions.GET("/:id", h.Positions.GetPosition)
			positions.POST("", admin, h.Positions.CreatePosition)
			positions.PUT("/:id", admin, h.Positions.UpdatePosition)
			positions.DELETE("/:id", admin, h.Positions.DeletePosition)
		}

		candidates := api.Group("/candidates")
		{
			candidates.GET("", h.Candidates.ListCandidates)
			candidates.GET("/:id", h.Candidates.GetCandidate)
			candidates.POST("", admin, h.Candidates.CreateCandidate)
			candidates.PUT("/:id", admin, h.Candidates.UpdateCandidate)
			candidates.DELETE("/:id", admin, h.Candidates.DeleteCandidate)
			candidates.POST("/:id/portrait", admin, h.Candidates.UploadPortrait)
		}

		api.GET("/election/status", h.Election.GetElectionStatus)

		votes := api.Group("/votes")
		{
			votes.GET("/user-status", h.Votes.GetUserStatus)
			votes.POST("/cast", h.Votes.CastVote)
			votes.GET("/results", h.Votes.GetResults)
		}

		adminRoutes := api.Group("/admin", admin)
		{
			adminRoutes.GET("/voting-status", h.Election.GetVotingStatus)
			adminRoutes.POST("/open-voting", h.Election.OpenVoting)
			adminRoutes.POST("/close-voting", h.Election.CloseVoting)
			adminRoutes.POST("/clear-database", h.Election.ClearDatabase)
		}
	}
}
