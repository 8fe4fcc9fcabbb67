package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pawkit-ai/pawkit-backend/internal/batch"
	"github.com/pawkit-ai/pawkit-backend/internal/config"
	"github.com/pawkit-ai/pawkit-backend/internal/job"
	"github.com/pawkit-ai/pawkit-backend/internal/ledger"
	"github.com/pawkit-ai/pawkit-backend/internal/pipeline"
	"github.com/pawkit-ai/pawkit-backend/internal/storage/postgres"
	"github.com/pawkit-ai/pawkit-backend/middleware"
	"gorm.io/gorm"
)

// NewRouter wires every synchronous entry point. All routes except the
// health check require a caller identity; the watchdog sweep additionally
// accepts the shared service secret.
func NewRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorHandler())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	jobRepo := postgres.NewJobRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	batchRepo := postgres.NewBatchRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)

	backend := pipeline.NewBackendClient(cfg.BackendBaseURL)
	renderer := pipeline.NewBackendClient(cfg.ClipRendererURL)
	dispatcher := pipeline.NewDispatcher(jobRepo, orderRepo, batchRepo,
		pipeline.DefaultSteps(backend, renderer), cfg.DispatchBatchSize)
	watchdog := pipeline.NewWatchdog(jobRepo)
	trigger := pipeline.NewTrigger(watchdog, dispatcher, jobRepo, cfg.WatchdogTimeout, cfg.WatchdogAttempts)

	orderHandler := job.NewOrderHandler(job.NewOrderService(orderRepo, jobRepo))
	batchHandler := batch.NewHandler(batch.NewService(batchRepo, jobRepo))
	ledgerHandler := ledger.NewHandler(ledger.NewService(ledgerRepo))
	pipelineHandler := pipeline.NewHandler(trigger, watchdog)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	r.POST("/pipeline/watchdog",
		middleware.SweepAuth(cfg.JWTSecret, cfg.WatchdogSecret),
		pipelineHandler.Sweep)

	authed := r.Group("/")
	authed.Use(middleware.AuthRequired(cfg.JWTSecret))

	authed.POST("/orders", orderHandler.CreateOrder)
	authed.GET("/orders/:id", orderHandler.GetOrder)
	authed.GET("/jobs/:id", orderHandler.GetJob)
	authed.GET("/jobs", orderHandler.ListJobs)

	authed.POST("/pipeline/trigger", pipelineHandler.Trigger)

	authed.POST("/ledger/consume", ledgerHandler.Consume)
	authed.POST("/ledger/refund", ledgerHandler.Refund)

	authed.POST("/batches", batchHandler.Create)
	authed.GET("/batches/:id", batchHandler.Status)
	authed.GET("/batches/:id/export.csv", batchHandler.ExportCSV)
	authed.GET("/batches/:id/export.zip", batchHandler.ExportZip)
	authed.POST("/batches/:id/clips/:clipId/retry", batchHandler.RetryClip)

	return r
}
