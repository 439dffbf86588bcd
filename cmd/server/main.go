// Consulta Placa API
// @title Consulta Placa API
// @version 1.0
// @description Consulta de dados veiculares por placa com cache de 24h e enriquecimento de preços de mercado
// @host localhost:3000
// @BasePath /

package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "consultaplaca/docs"
	"consultaplaca/internal/config"
	"consultaplaca/internal/consulta"
	"consultaplaca/internal/database"
	"consultaplaca/internal/handlers"
	"consultaplaca/internal/middleware"
	"consultaplaca/internal/placas"
	"consultaplaca/internal/scraper"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	db, err := database.NewDatabase(cfg.SQLitePath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	// Lookup endpoints are disabled (503) without a provider token; the
	// history and statistics endpoints keep serving stored data.
	var service *consulta.Service
	client, err := placas.NewClient(cfg)
	if err != nil {
		log.Printf("[WARN] consultas ao provedor desabilitadas: %v", err)
	} else {
		service = consulta.NewService(db, client, scraper.New(cfg))
	}

	// Initialize Gin router
	r := gin.Default()

	r.SetTrustedProxies([]string{
		"127.0.0.1",
		"::1",
		"172.16.0.0/12",  // Docker networks
		"10.0.0.0/8",     // Private networks
		"192.168.0.0/16", // Private networks
	})

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	r.Use(cors.New(corsConfig))

	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.UserAgentFilter())

	h := handlers.NewConsultaHandler(service, db, cfg)

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := r.Group("/api")
	{
		api.GET("/consulta/:placa", h.Consultar)
		api.GET("/consulta/:placa/forcar", h.ConsultarForcada)
		api.GET("/consulta/:placa/historico", h.Historico)
		api.GET("/consultas", h.ListarConsultas)
		api.GET("/estatisticas", h.Estatisticas)
	}
	r.GET("/health", h.Health)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
