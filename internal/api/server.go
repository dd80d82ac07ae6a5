package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sellsync/internal/api/handlers"
	"sellsync/internal/api/middleware"
	"sellsync/internal/config"
	"sellsync/internal/importer"
	"sellsync/internal/logger"
	"sellsync/internal/repository"
	"sellsync/internal/services/ebay"
	"sellsync/internal/syncer"

	"github.com/gin-gonic/gin"
)

// Services are the collaborators the HTTP layer is wired to.
type Services struct {
	Store     *repository.Store
	OAuth     *ebay.OAuthService
	States    *ebay.StateSigner
	Profiles  handlers.ProfileFetcher
	Engine    *syncer.Engine
	Importer  *importer.Service
	Publisher handlers.SyncPublisher
}

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, svc Services) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Initialize handlers
	ebayHandler := handlers.NewEbayHandler(svc.Store, svc.OAuth, svc.States, svc.Profiles, cfg, logger)
	syncHandler := handlers.NewSyncHandler(svc.Engine, svc.Store, svc.Publisher, logger)
	importHandler := handlers.NewImportHandler(svc.Importer, cfg.Spreadsheet.MaxUploadBytes, logger)
	recordsHandler := handlers.NewRecordsHandler(svc.Store, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Routes
	v1 := router.Group("/api/v1")
	{
		// The OAuth redirect carries no account header; the state identifies the account.
		v1.GET("/ebay/callback", ebayHandler.Callback)

		account := v1.Group("")
		account.Use(middleware.Account(svc.Store, logger))

		// eBay connection and sync
		ebayRoutes := account.Group("/ebay")
		{
			ebayRoutes.GET("/connect", ebayHandler.Connect)
			ebayRoutes.GET("/status", ebayHandler.Status)
			ebayRoutes.POST("/disconnect", ebayHandler.Disconnect)
			ebayRoutes.POST("/sync", syncHandler.Sync)
			ebayRoutes.GET("/sync", syncHandler.Status)
		}

		// Spreadsheet import
		account.POST("/import", importHandler.Import)

		// Stored records
		account.GET("/sales", recordsHandler.Sales)
		account.GET("/orders", recordsHandler.Orders)
		account.GET("/listings", recordsHandler.Listings)
		account.GET("/inventory", recordsHandler.Inventory)
		account.GET("/deposits", recordsHandler.Deposits)
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on %s", addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
