package routes

import (
	"billing_reconciler/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathWebhooks  = "/webhooks"
	PathPayments  = "/payments"
	PathPlans     = "/plans"
	PathAdmin     = "/admin"
	PathRealtime  = "/realtime"
	PathPing      = "/ping"
	PathFailedJob = "/failed-jobs"
)

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET(PathPing, func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}

func addWebhookRoutes(rg *gin.RouterGroup, webhookHandler *handlers.WebhookHandler) {
	webhooks := rg.Group(PathWebhooks)
	{
		webhooks.POST("/mercadopago", webhookHandler.ReceiveMercadoPago)
	}
}

func addBillingRoutes(rg *gin.RouterGroup, checkoutHandler *handlers.CheckoutHandler, planHandler *handlers.PlanHandler) {
	rg.POST(PathPayments, checkoutHandler.CreatePayment)
	rg.GET(PathPlans, planHandler.ListPlans)
}

func addAdminRoutes(rg *gin.RouterGroup, failedJobHandler *handlers.FailedJobHandler) {
	admin := rg.Group(PathAdmin)
	{
		admin.GET(PathFailedJob, failedJobHandler.ListFailedJobs)
	}
}

func addRealtimeRoutes(rg *gin.RouterGroup, realtimeHandler *handlers.RealtimeHandler) {
	rg.GET(PathRealtime+"/ws", realtimeHandler.Connect)
}
