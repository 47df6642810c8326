package routes

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	_ "billing_reconciler/docs" // This will be auto-generated
	"billing_reconciler/internal/adapter/http/handlers"
	"billing_reconciler/internal/infrastructure/bootstrap"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

const shutdownTimeout = 10 * time.Second

// Run serves the API until ctx ends, then drains in-flight requests.
func Run(ctx context.Context, app *bootstrap.App) error {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes(app)

	srv := &http.Server{Addr: ":" + app.Config.Port, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[api] listening addr=%s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func getRoutes(app *bootstrap.App) {
	webhookHandler := handlers.NewWebhookHandler(app.Webhook)
	checkoutHandler := handlers.NewCheckoutHandler(app.Checkout)
	planHandler := handlers.NewPlanHandler(app.PlanCatalog)
	failedJobHandler := handlers.NewFailedJobHandler(app.FailedJobsUC)
	realtimeHandler := handlers.NewRealtimeHandler(app.Hub)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addWebhookRoutes(v1, webhookHandler)
	addBillingRoutes(v1, checkoutHandler, planHandler)
	addAdminRoutes(v1, failedJobHandler)
	addRealtimeRoutes(v1, realtimeHandler)
}

func setMiddlewares() {
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}
