package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/argus-admin/argus/api/audit"
	"github.com/argus-admin/argus/api/auth"
	"github.com/argus-admin/argus/api/config"
	"github.com/argus-admin/argus/api/controller"
	"github.com/argus-admin/argus/api/dao"
	"github.com/argus-admin/argus/api/db"
	logger "github.com/argus-admin/argus/api/logging"
	"github.com/argus-admin/argus/api/router"
	"github.com/argus-admin/argus/api/service"
	"github.com/argus-admin/argus/api/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize utilities
	validationUtil := util.NewValidationUtil()
	cacheService := util.NewCacheService()
	notificationService := util.NewNotificationService()

	var auditRepository audit.Repository
	auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Warn("Elasticsearch unavailable, auditing to log only", zap.Error(err))
		auditRepository = audit.NoopRepository{}
	}
	auditService := audit.NewService(auditRepository)

	// Initialize the directory store
	var (
		userDAO dao.UserDAO
		roleDAO dao.RoleDAO
		deptDAO dao.DepartmentDAO
	)
	if config.GetString("storage.backend") == "neo4j" {
		if err := db.InitNeo4j(); err != nil {
			logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
		}
		defer db.CloseNeo4j()

		graphStore, err := dao.NewGraphStore(db.Neo4jDriver)
		if err != nil {
			logger.Fatal("Failed to initialize graph store", zap.Error(err))
		}
		userDAO, roleDAO, deptDAO = graphStore, graphStore, graphStore
	} else {
		store := dao.NewSeededMemoryStore()
		userDAO, roleDAO, deptDAO = store, store, store
	}

	// Initialize services
	services := &service.Services{
		Dept: service.NewDepartmentService(deptDAO, userDAO, validationUtil, cacheService, notificationService, eventBus, auditService, config.GetInt("dept.defaultId")),
		Role: service.NewRoleService(roleDAO, validationUtil, cacheService, notificationService, eventBus, auditService),
		User: service.NewUserService(userDAO, roleDAO, validationUtil, cacheService, notificationService, eventBus, auditService),
	}

	// Initialize the session manager
	issuer := auth.NewTokenIssuer(config.GetString("auth.signingKey"), config.GetDuration("auth.tokenTTL"))
	verifier := auth.NewStaticVerifier(auth.SeedPasswords())
	sessions := auth.NewManager(
		userDAO,
		roleDAO,
		verifier,
		auth.RedisLoginStore{},
		issuer,
		eventBus,
		auditService,
		config.GetDuration("auth.rememberMeTTL"),
	)

	// Initialize controllers
	controllers := controller.InitializeControllers(services, sessions)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(controllers, sessions, 100, time.Minute)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
