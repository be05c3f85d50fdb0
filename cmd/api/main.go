package main

import (
	"log"
	"os"

	"salespoint/internal/database"
	"salespoint/internal/handler"
	"salespoint/internal/middleware"
	"salespoint/internal/repository"
	"salespoint/internal/service"
	"salespoint/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Sales Point API
// @version         1.0
// @description     Point-of-sale, inventory, invoicing and supplier management backend.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	clientRepo := repository.NewClientRepository(db)
	productRepo := repository.NewProductRepository(db)
	stockRepo := repository.NewStockRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	posLocationRepo := repository.NewPOSLocationRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	preorderRepo := repository.NewPreorderRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)

	userService := service.NewUserService(userRepo, auditRepo, txManager)
	supplierService := service.NewSupplierService(supplierRepo, auditRepo, txManager)
	clientService := service.NewClientService(clientRepo, txManager)
	catalogService := service.NewCatalogService(productRepo, stockRepo, warehouseRepo, auditRepo, txManager, wsHub)
	locationService := service.NewLocationService(warehouseRepo, posLocationRepo)
	transferService := service.NewTransferService(transferRepo, stockRepo, productRepo, warehouseRepo, posLocationRepo, auditRepo, txManager, wsHub)
	posService := service.NewPOSService(orderRepo, productRepo, stockRepo, clientRepo, posLocationRepo, auditRepo, txManager, wsHub)
	paymentService := service.NewPaymentService(orderRepo, auditRepo, txManager)
	preorderService := service.NewPreorderService(preorderRepo, productRepo, clientRepo, txManager)
	statisticsService := service.NewStatisticsService(statsRepo)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	clientHandler := handler.NewClientHandler(clientService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	locationHandler := handler.NewLocationHandler(locationService)
	transferHandler := handler.NewTransferHandler(transferService)
	posHandler := handler.NewPOSHandler(posService, paymentService)
	preorderHandler := handler.NewPreorderHandler(preorderService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route (docs generated with `swag init -g cmd/api/main.go`)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	supplierHandler.RegisterRoutes(router.Group(""))
	clientHandler.RegisterRoutes(router.Group(""))
	catalogHandler.RegisterRoutes(router.Group(""))
	locationHandler.RegisterRoutes(router.Group(""))
	transferHandler.RegisterRoutes(router.Group(""))
	posHandler.RegisterRoutes(router.Group(""))
	preorderHandler.RegisterRoutes(router.Group(""))
	statisticsHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
