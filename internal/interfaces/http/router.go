package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/cuentas-api/internal/application/auth"
	"github.com/jhoicas/cuentas-api/internal/application/billing"
	"github.com/jhoicas/cuentas-api/internal/application/ports"
	"github.com/jhoicas/cuentas-api/internal/application/registration"
	"github.com/jhoicas/cuentas-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Registration  *registration.UseCase
	AuthUC        *auth.AuthUseCase
	Verification  Verifier
	Payments      *billing.PaymentUseCase // nil = webhook deshabilitado
	Tokens        ports.TokenParser
	BillingSecret string
	Log           *logger.Logger
}

// AppConfig opciones de la aplicación Fiber.
type AppConfig struct {
	Name             string
	CORSAllowOrigins string
	Gatherer         prometheus.Gatherer // nil = sin /metrics
	// Middlewares extra montados antes de las rutas (p. ej. swagger).
	Middlewares []fiber.Handler
}

// NewApp arma la aplicación: recover, CORS, log de requests, allow-list de seguridad y rutas.
func NewApp(cfg AppConfig, deps RouterDeps) *fiber.App {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:               cfg.Name,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + BillingKeyHeader,
	}))
	app.Use(RequestLogger(deps.Log.Named("http")))
	for _, m := range cfg.Middlewares {
		app.Use(m)
	}
	app.Use(SecurityMiddleware(deps.Tokens, PublicPrefixes))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")

	// Auth (público)
	authHandler := NewAuthHandler(deps.Registration, deps.AuthUC, deps.Log)
	authGroup := api.Group("/auth")
	authGroup.Post("/initiate-register", authHandler.InitiateRegister)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Verificación (público)
	verificationHandler := NewVerificationHandler(deps.Verification, deps.Registration, deps.Log)
	verification := api.Group("/verification")
	verification.Post("/send", verificationHandler.Send)
	verification.Post("/verify", verificationHandler.Verify)
	verification.Get("/status", verificationHandler.Status)

	// Cuenta (Bearer)
	api.Get("/accounts/me", authHandler.Me)

	// Billing (X-Billing-Key)
	if deps.Payments != nil {
		billingHandler := NewBillingHandler(deps.Payments, deps.Log)
		api.Post("/billing/payments", RequireBillingKey(deps.BillingSecret), billingHandler.RecordPayment)
	}
}
