package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/cuentas-api/internal/application/auth"
	"github.com/jhoicas/cuentas-api/internal/application/billing"
	"github.com/jhoicas/cuentas-api/internal/application/ports"
	"github.com/jhoicas/cuentas-api/internal/application/registration"
	"github.com/jhoicas/cuentas-api/internal/application/verification"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
	"github.com/jhoicas/cuentas-api/internal/infrastructure/kafka"
	"github.com/jhoicas/cuentas-api/internal/infrastructure/mail"
	"github.com/jhoicas/cuentas-api/internal/infrastructure/memory"
	"github.com/jhoicas/cuentas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/cuentas-api/internal/infrastructure/security"
	httpRouter "github.com/jhoicas/cuentas-api/internal/interfaces/http"
	"github.com/jhoicas/cuentas-api/pkg/config"
	"github.com/jhoicas/cuentas-api/pkg/logger"
)

// txRunner cubre las transacciones de verificación y de facturación.
type txRunner interface {
	verification.TxRunner
	billing.BillingTxRunner
}

type storage struct {
	accounts repository.AccountRepository
	codes    repository.VerificationCodeRepository
	tx       txRunner
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	// Correo: SMTP si hay host configurado; si no, solo se registra en el log.
	var sender mail.Sender = mail.NewLogSender(log.Named("mail"))
	if cfg.Mail.Enabled() {
		sender = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
	} else {
		log.Warn().Msg("MAIL_HOST vacío: los códigos solo se registran en el log")
	}
	mailMetrics, err := mail.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal().Err(err).Msg("registrar métricas de correo")
	}
	dispatcher := mail.NewDispatcher(sender, mail.DispatcherConfig{
		Workers:     cfg.Mail.Workers,
		QueueSize:   cfg.Mail.QueueSize,
		SendTimeout: cfg.Mail.SendTimeout(),
	}, mailMetrics, log)

	events, closeEvents := openEvents(cfg, log)
	defer closeEvents()

	engine := verification.NewEngine(store.codes, store.tx, dispatcher, verification.Config{
		CodeLength: cfg.Verification.CodeLength,
		Expiration: cfg.Verification.Expiration(),
	}, log)

	hasher := security.NewBcryptHasher(0)
	tokens := security.NewTokenIssuer(security.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: tokens simulados, las rutas con Bearer responden 401")
	}

	registrationUC := registration.NewUseCase(store.accounts, engine, hasher, events, log)
	authUC := auth.NewAuthUseCase(store.accounts, hasher, tokens, log)

	var paymentUC *billing.PaymentUseCase
	if cfg.Billing.WebhookSecret != "" {
		paymentUC = billing.NewPaymentUseCase(store.accounts, store.tx, cfg.Billing.WholesaleFee, log)
	}

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:             cfg.App.Name,
		CORSAllowOrigins: cfg.HTTP.CORSAllowOrigins,
		Gatherer:         prometheus.DefaultGatherer,
		Middlewares: []fiber.Handler{
			// Swagger UI en local: http://localhost:<port>/docs
			swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: "./docs/swagger.json",
				Path:     "docs",
				Title:    "Cuentas API",
			}),
		},
	}, httpRouter.RouterDeps{
		Registration:  registrationUC,
		AuthUC:        authUC,
		Verification:  engine,
		Payments:      paymentUC,
		Tokens:        tokens,
		BillingSecret: cfg.Billing.WebhookSecret,
		Log:           log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// Los correos en cola se entregan antes de cerrar.
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cierre del despachador de correo")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			accounts: s.Accounts(),
			codes:    s.Codes(),
			tx:       memory.NewTxRunner(s),
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &storage{
		accounts: postgres.NewAccountRepository(pool),
		codes:    postgres.NewVerificationCodeRepository(pool),
		tx:       postgres.NewTxRunner(pool),
		close:    pool.Close,
	}, nil
}

func openEvents(cfg *config.Config, log *logger.Logger) (ports.EventPublisher, func()) {
	if len(cfg.Kafka.Brokers) == 0 {
		return kafka.NoopPublisher{}, func() {}
	}
	kcfg := kafka.Config{
		Brokers:     cfg.Kafka.Brokers,
		TopicPrefix: cfg.Kafka.TopicPrefix,
		ClientID:    cfg.App.Name,
	}
	producer, err := kafka.NewSyncProducer(kcfg)
	if err != nil {
		// El registro no depende de Kafka: se sigue sin eventos.
		log.Error().Err(err).Strs("brokers", cfg.Kafka.Brokers).Msg("conexión a Kafka, eventos deshabilitados")
		return kafka.NoopPublisher{}, func() {}
	}
	pub := kafka.NewPublisher(producer, kcfg, log)
	return pub, func() {
		if err := pub.Close(); err != nil {
			log.Error().Err(err).Msg("cierre del productor Kafka")
		}
	}
}
