// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/benefitbuddy/go-leads-backend/docs"
	"github.com/benefitbuddy/go-leads-backend/internal/config"
	"github.com/benefitbuddy/go-leads-backend/internal/http/handlers"
	"github.com/benefitbuddy/go-leads-backend/internal/http/middleware"
	"github.com/benefitbuddy/go-leads-backend/internal/notify"
	"github.com/benefitbuddy/go-leads-backend/internal/services"
	"github.com/benefitbuddy/go-leads-backend/internal/token"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting, CORS
// and security headers, health and metrics endpoints, and then mounts the
// public, voice, and admin APIs under the configured base path.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. CORS and Security headers
//
// Rate limiters are per-route (submissions and leads carry different
// budgets), so they attach at the route level rather than globally.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction. The admin key travels as a
	// header or a query param; both are masked.
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders:     []string{middleware.HeaderAdminKey},
		MaskQueryParams: []string{"key", "adminKey", "token"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderAdminKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderAdminKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/outbound clients
	webhook := notify.NewWebhookClient(cfg.Webhooks.Timeout)
	sms := notify.NewTwilioSMS(cfg.Twilio)
	receipt := token.NewReceipt(cfg.ReceiptSecret)

	deliverySvc := &services.DeliveryService{
		DB:            db,
		Webhook:       webhook,
		Receipt:       receipt,
		Cfg:           cfg.Webhooks,
		PublicBaseURL: cfg.PublicBaseURL,
		Observe: func(channel string, sent bool) {
			outcome := "failure"
			if sent {
				outcome = "success"
			}
			middleware.CountWebhookDelivery(channel, outcome)
		},
	}
	subSvc := &services.SubmissionService{
		DB:         db,
		Webhook:    webhook,
		WebhookURL: cfg.Webhooks.SubmissionURL,
	}
	leadSvc := &services.LeadService{DB: db, Delivery: deliverySvc}
	agentSvc := &services.AgentService{DB: db}
	advisorSvc := &services.AdvisorService{DB: db, SMS: sms}
	phoneSvc := &services.PhoneLeadService{
		DB:         db,
		SMS:        sms,
		AdminPhone: cfg.Twilio.AdminAlertPhone,
	}
	h := handlers.New(subSvc, leadSvc, deliverySvc, agentSvc, advisorSvc, phoneSvc, receipt, cfg)

	// Per-route limiters: lead capture runs a stricter budget than screening.
	submissionRL := middleware.PerMinute(cfg.SubmissionRatePerMin)
	leadRL := middleware.PerMinute(cfg.LeadRatePerMin)

	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/api"
	{
		// Screening submissions
		api.POST("/submissions", submissionRL.Handler(), h.CreateSubmission)
		api.GET("/public-results/:id", h.PublicResults)

		// Medicare leads
		api.POST("/leads", leadRL.Handler(), h.CreateLead)
		api.GET("/agent/lead/:id", h.AgentLeadReceipt)

		// Advisor callback requests
		api.POST("/phone-leads", leadRL.Handler(), h.CreatePhoneLead)

		// Twilio voice webhooks
		voice := api.Group("/voice")
		{
			voice.POST("/inbound", h.VoiceInbound)
			voice.POST("/gather-zip", h.VoiceGatherZip)
			voice.POST("/gather-service", h.VoiceGatherService)
			voice.POST("/gather-callback", h.VoiceGatherCallback)
			voice.POST("/complete", h.VoiceComplete)
		}

		// Admin API (shared-key gate; list and export payloads compress well)
		admin := api.Group("/admin", middleware.AdminAuth(cfg.AdminKey), gzip.Gzip(gzip.DefaultCompression))
		{
			admin.GET("/submissions", h.ListSubmissions)
			admin.GET("/submissions/:id", h.GetSubmission)
			admin.PATCH("/submissions/:id", h.UpdateSubmission)
			admin.DELETE("/submissions/:id", h.DeleteSubmission)
			admin.GET("/export", h.ExportSubmissions)

			admin.GET("/leads", h.ListLeads)
			admin.GET("/leads/:id", h.GetLead)
			admin.PATCH("/leads/:id", h.UpdateLead)
			admin.DELETE("/leads/:id", h.DeleteLead)
			admin.POST("/leads/:id/retry-delivery", h.RetryDelivery)

			admin.GET("/agents", h.ListAgents)
			admin.POST("/agents", h.CreateAgent)
			admin.PATCH("/agents/:id", h.UpdateAgent)
			admin.DELETE("/agents/:id", h.DeleteAgent)
			admin.PUT("/agents/:id/credits", h.SetAgentCredits)
			admin.POST("/agents/:id/credits/adjust", h.AdjustAgentCredits)

			admin.GET("/advisors", h.ListAdvisors)
			admin.POST("/advisors", h.CreateAdvisor)
			admin.PATCH("/advisors/:id", h.UpdateAdvisor)
			admin.DELETE("/advisors/:id", h.DeleteAdvisor)
		}
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
