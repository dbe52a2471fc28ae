// Package port exposes the relay over HTTP: JSON send/verify endpoints under
// /api and at the root, legacy aliases, and a health check.
package port

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aelexs/otp-relay/internal/domain"
)

// RouterConfig holds the dependencies for NewRouter.
type RouterConfig struct {
	Service        otpService
	Clock          domain.Clock
	Logger         *slog.Logger
	AllowedOrigins []string // defaults to "*"
	MaxBodyBytes   int64    // defaults to domain.MaxRequestBodyBytes
}

// NewRouter builds the relay's HTTP handler.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = domain.MaxRequestBodyBytes
	}

	h := NewOTPHandler(cfg.Service, cfg.Clock)
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(recoverJSON)
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(limitBody(maxBody))

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/health", h.Health)

	// Same routes under /api and at the root for older clients.
	r.Route("/api", func(r chi.Router) {
		mountOTPRoutes(r, h)
	})
	mountOTPRoutes(r, h)

	return otelhttp.NewHandler(r, "otprelay",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func mountOTPRoutes(r chi.Router, h *OTPHandler) {
	r.Post("/send-otp", h.SendOTP)
	r.Post("/verify-otp", h.VerifyOTP)
	r.Post("/sendotp", h.LegacySendOTP)
	r.Post("/verifyotp", h.LegacyVerifyOTP)
}
