package api

import (
	"net/http"
	"time"

	limits "github.com/gin-contrib/size"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	timeout "github.com/vearne/gin-timeout"

	"github.com/checkmarble/renewals-backend/usecases"
)

const (
	DEFAULT_MAX_UPLOAD_SIZE_BYTES = 10 * 1024 * 1024
	serverTimeoutMargin           = 5 * time.Second
)

func timeoutMiddleware(duration time.Duration) gin.HandlerFunc {
	if duration <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return timeout.Timeout(
		timeout.WithTimeout(duration),
		timeout.WithErrorHttpCode(http.StatusRequestTimeout),
		timeout.WithDefaultMsg("Request timeout"),
	)
}

func addRoutes(r *gin.Engine, conf Configuration, uc usecases.Usecases) {
	maxUploadSize := conf.MaxUploadSizeBytes
	if maxUploadSize <= 0 {
		maxUploadSize = DEFAULT_MAX_UPLOAD_SIZE_BYTES
	}
	negotiationTimeout := max(conf.NegotiationTimeout, conf.DefaultTimeout)

	r.GET("/liveness", handleLivenessProbe)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router := r.Group("/sessions", timeoutMiddleware(conf.DefaultTimeout))

	router.POST("", handlePostSession(uc))
	router.POST("/:session_id/assets", handlePostAssets(uc))
	router.POST("/:session_id/assets/upload", limits.RequestSizeLimiter(maxUploadSize), handleUploadAssets(uc))
	router.GET("/:session_id/worklist", handleGetWorklist(uc))
	router.GET("/:session_id/leads", handleListLeads(uc))

	router.POST("/:session_id/assets/:asset_id/quotes", handleGenerateQuote(uc))
	router.GET("/:session_id/assets/:asset_id/quotes", handleQuoteHistory(uc))
	router.GET("/:session_id/quotes/:quote_id", handleGetQuote(uc))
	router.POST("/:session_id/quotes/:quote_id/accept", handleAcceptQuote(uc))
	router.POST("/:session_id/quotes/:quote_id/approve", handleApproveQuote(uc))

	// Rejection classifies the reason, possibly through a remote model
	r.POST("/sessions/:session_id/quotes/:quote_id/reject",
		timeoutMiddleware(negotiationTimeout+serverTimeoutMargin), handleRejectQuote(uc))
}
