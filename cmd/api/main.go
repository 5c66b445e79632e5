package main

import (
	stdlog "log"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/cleberrangel/task-tracker-api/internal/cache"
	"github.com/cleberrangel/task-tracker-api/internal/config"
	"github.com/cleberrangel/task-tracker-api/internal/database"
	"github.com/cleberrangel/task-tracker-api/internal/handler"
	"github.com/cleberrangel/task-tracker-api/internal/logger"
	"github.com/cleberrangel/task-tracker-api/internal/metrics"
	"github.com/cleberrangel/task-tracker-api/internal/middleware"
	"github.com/cleberrangel/task-tracker-api/internal/migration"
	"github.com/cleberrangel/task-tracker-api/internal/repository"
	"github.com/cleberrangel/task-tracker-api/internal/service"
	"github.com/cleberrangel/task-tracker-api/internal/websocket"
	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

func main() {
	// Carrega configurações
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Erro ao carregar configurações: %v", err)
	}

	// Inicializa logger estruturado
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	logger.InitAudit()
	log := logger.Global()
	log.Info().
		Str("version", Version).
		Str("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Bool("log_json", cfg.LogJSON).
		Msg("Task Tracker API iniciando")

	// Inicializa métricas
	metrics.Init()

	// Conecta ao banco e aplica migrações
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao conectar ao banco")
	}
	defer database.Close(db)

	migrator := migration.NewMigrator(db)
	if err := migrator.Run(); err != nil {
		log.Fatal().Err(err).Msg("Erro ao aplicar migrações")
	}

	// Repositórios
	taskRepo := repository.NewTaskRepository(db)
	tagRepo := repository.NewTagRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Cache de listagens (tags mudam pouco)
	listCache := cache.NewCache(5 * time.Minute)
	defer listCache.Stop()

	// Hub WebSocket para o feed de atividades
	hub := websocket.NewHub()
	go hub.Run()

	// Serviços
	activityService := service.NewActivityService(activityRepo, hub)
	taskService := service.NewTaskService(taskRepo, activityService)
	estimateService := service.NewEstimateService(taskRepo)
	summaryService := service.NewSummaryService()
	rewriteService := service.NewRewriteService()
	exportService := service.NewExportService()

	// Handlers
	taskHandler := handler.NewTaskHandler(taskService, activityService)
	tagHandler := handler.NewTagHandler(tagRepo, listCache)
	aiHandler := handler.NewAIHandler(taskService, activityService, estimateService, summaryService, rewriteService)
	reportHandler := handler.NewReportHandler(taskRepo, exportService)
	healthHandler := handler.NewHealthHandler(db, hub, Version)
	wsHandler := handler.NewWebSocketHandler(hub)

	// Autenticação de sessão (web) com CSRF
	csrfMiddleware := middleware.NewCSRFMiddleware(middleware.CSRFConfig{})
	sessionAuth := middleware.NewSessionAuthMiddleware(middleware.SessionAuthConfig{
		CookieHTTPOnly: true,
	}).WithCSRF(csrfMiddleware)
	loadSessionUsers(sessionAuth, cfg.SessionUsers)

	// Limpeza periódica de sessões e tokens CSRF expirados
	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	go csrfMiddleware.StartCleanup(time.Hour, stopCleanup)
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sessionAuth.CleanupExpiredSessions()
			case <-stopCleanup:
				return
			}
		}
	}()

	// Rate limit por cliente
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	defer rateLimiter.Stop()

	// Configura modo do Gin
	gin.SetMode(cfg.GinMode)

	// Inicializa router
	r := gin.New()
	r.Use(middleware.RequestID()) // Request ID + logging estruturado
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(rateLimiter.Middleware())

	// Health e métricas (públicos)
	r.GET("/health", healthHandler.DetailedHealthCheck)
	r.GET("/health/live", healthHandler.LivenessCheck)
	r.GET("/health/ready", healthHandler.ReadinessCheck)
	r.GET("/metrics", healthHandler.GetMetrics)
	r.GET("/metrics/summary", healthHandler.GetMetricsSummary)
	r.GET("/metrics/endpoints", healthHandler.GetEndpointMetrics)

	// Debug memory endpoint (público)
	r.GET("/debug/memory", func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		c.JSON(200, gin.H{
			"alloc_mb":       m.Alloc / 1024 / 1024,
			"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
			"sys_mb":         m.Sys / 1024 / 1024,
			"heap_alloc_mb":  m.HeapAlloc / 1024 / 1024,
			"heap_inuse_mb":  m.HeapInuse / 1024 / 1024,
			"heap_objects":   m.HeapObjects,
			"goroutines":     runtime.NumGoroutine(),
			"gc_runs":        m.NumGC,
			"gc_pause_total": m.PauseTotalNs / 1000000, // ms
		})
	})

	// Force GC endpoint (público)
	r.POST("/debug/gc", func(c *gin.Context) {
		runtime.GC()
		debug.FreeOSMemory()
		c.JSON(200, gin.H{"status": "gc_completed"})
	})

	// Autenticação web por sessão; mutações exigem o token CSRF emitido no login
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", sessionAuth.Login)
		auth.POST("/logout", sessionAuth.RequireAuth(), csrfMiddleware.RequireCSRF(), sessionAuth.Logout)
	}

	// Feed de atividades em tempo real (sessão via cookie ou query param)
	r.GET("/ws", websocket.AuthMiddleware(sessionAuth), wsHandler.HandleConnection)

	// Estatísticas de conexões (sessão)
	ws := r.Group("/api/v1/ws", sessionAuth.RequireAuth())
	{
		ws.GET("/stats", wsHandler.GetConnectionStats)
		ws.GET("/connections", wsHandler.GetUserConnections)
	}

	// Grupo de rotas protegidas por token de API
	api := r.Group("/api/v1")
	api.Use(middleware.BearerAuth(middleware.AuthConfig{
		TokenAPI: cfg.TokenAPI,
	}))
	{
		api.POST("/tasks", taskHandler.Create)
		api.GET("/tasks", taskHandler.List)
		api.GET("/tasks/:id", taskHandler.Get)
		api.PATCH("/tasks/:id", taskHandler.Update)
		api.DELETE("/tasks/:id", taskHandler.Delete)
		api.GET("/tasks/:id/activities", taskHandler.Activities)

		// Estimate e summary são leituras idempotentes; rewrite gera conteúdo
		api.GET("/tasks/:id/smart-estimate", aiHandler.SmartEstimate)
		api.GET("/tasks/:id/smart-summary", aiHandler.SmartSummary)
		api.POST("/tasks/:id/smart-rewrite", aiHandler.SmartRewrite)

		api.POST("/tags", tagHandler.Create)
		api.GET("/tags", tagHandler.List)
		api.GET("/tags/:id", tagHandler.Get)
		api.PUT("/tags/:id", tagHandler.Update)
		api.DELETE("/tags/:id", tagHandler.Delete)

		api.GET("/reports/tasks", reportHandler.ExportTasks)
	}

	// Inicia servidor
	port := cfg.Port
	log.Info().Str("port", port).Msg("Servidor iniciando")

	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Erro ao iniciar servidor")
		os.Exit(1)
	}
}

// loadSessionUsers popula os usuários da sessão web a partir da configuração
// no formato "user1:hash1,user2:hash2"
func loadSessionUsers(auth *middleware.SessionAuthMiddleware, raw string) {
	log := logger.Global()

	if raw == "" {
		log.Warn().Msg("SESSION_USERS vazio, login web desabilitado")
		return
	}

	count := 0
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			log.Warn().Str("entry", entry).Msg("Entrada de SESSION_USERS inválida, ignorando")
			continue
		}
		auth.AddUser(parts[0], parts[1])
		count++
	}

	log.Info().Int("users", count).Msg("Usuários de sessão carregados")
}
