package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// MaxCodeLength tope de VERIFICATION_CODE_LENGTH; coincide con verification_codes.code VARCHAR(12).
const MaxCodeLength = 12

// Drivers de almacenamiento soportados.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App          AppConfig
	DB           DBConfig
	Store        StoreConfig
	JWT          JWTConfig
	HTTP         HTTPConfig
	Verification VerificationConfig
	Mail         MailConfig
	Kafka        KafkaConfig
	Billing      BillingConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// StoreConfig elige la implementación de los repositorios.
type StoreConfig struct {
	Driver string // postgres | memory
}

// JWTConfig configuración de JWT. Secret vacío = token simulado.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host             string
	Port             int
	CORSAllowOrigins string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// VerificationConfig parámetros de los códigos de verificación por email.
type VerificationConfig struct {
	CodeLength        int
	ExpirationMinutes int
}

// Expiration devuelve la ventana de validez como duración.
func (c VerificationConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationMinutes) * time.Minute
}

// MailConfig configuración SMTP y del despachador asíncrono.
// Host vacío = modo log (no se envía nada).
type MailConfig struct {
	Host               string
	Port               int
	Username           string
	Password           string
	From               string
	Workers            int
	QueueSize          int
	SendTimeoutSeconds int
}

// SendTimeout devuelve el timeout por envío.
func (c MailConfig) SendTimeout() time.Duration {
	return time.Duration(c.SendTimeoutSeconds) * time.Second
}

// Enabled indica si hay servidor SMTP configurado.
func (c MailConfig) Enabled() bool {
	return strings.TrimSpace(c.Host) != ""
}

// KafkaConfig configuración del publicador de eventos. Sin brokers = no-op.
type KafkaConfig struct {
	Brokers     []string
	TopicPrefix string
}

// BillingConfig parámetros del webhook de pagos.
type BillingConfig struct {
	WholesaleFee  decimal.Decimal
	WebhookSecret string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, MAIL_HOST, VERIFICATION_CODE_LENGTH, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	fee, err := decimal.NewFromString(getString(v, "BILLING_WHOLESALE_FEE", "0"))
	if err != nil {
		return nil, fmt.Errorf("BILLING_WHOLESALE_FEE inválido: %w", err)
	}

	username := getString(v, "MAIL_USERNAME", "")
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "cuentas-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "cuentas"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getString(v, "STORE_DRIVER", StoreDriverPostgres)),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "cuentas-api"),
		},
		HTTP: HTTPConfig{
			Host:             getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:             getInt(v, "HTTP_PORT", 8080),
			CORSAllowOrigins: getString(v, "CORS_ALLOW_ORIGINS", "*"),
		},
		Verification: VerificationConfig{
			CodeLength:        getInt(v, "VERIFICATION_CODE_LENGTH", 6),
			ExpirationMinutes: getInt(v, "VERIFICATION_EXPIRATION_MINUTES", 5),
		},
		Mail: MailConfig{
			Host:               getString(v, "MAIL_HOST", ""),
			Port:               getInt(v, "MAIL_PORT", 587),
			Username:           username,
			Password:           getString(v, "MAIL_PASSWORD", ""),
			From:               getString(v, "MAIL_FROM", username),
			Workers:            getInt(v, "MAIL_WORKERS", 4),
			QueueSize:          getInt(v, "MAIL_QUEUE_SIZE", 100),
			SendTimeoutSeconds: getInt(v, "MAIL_SEND_TIMEOUT_SECONDS", 15),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(getString(v, "KAFKA_BROKERS", "")),
			TopicPrefix: getString(v, "KAFKA_TOPIC_PREFIX", "cuentas"),
		},
		Billing: BillingConfig{
			WholesaleFee:  fee,
			WebhookSecret: getString(v, "BILLING_WEBHOOK_SECRET", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rechaza combinaciones que dejarían el servicio en un estado inútil.
func (c *Config) Validate() error {
	if c.Verification.CodeLength < 1 || c.Verification.CodeLength > MaxCodeLength {
		return fmt.Errorf("VERIFICATION_CODE_LENGTH debe estar entre 1 y %d, recibido %d", MaxCodeLength, c.Verification.CodeLength)
	}
	if c.Verification.ExpirationMinutes < 1 {
		return fmt.Errorf("VERIFICATION_EXPIRATION_MINUTES debe ser >= 1, recibido %d", c.Verification.ExpirationMinutes)
	}
	if c.Mail.Workers < 1 {
		return fmt.Errorf("MAIL_WORKERS debe ser >= 1, recibido %d", c.Mail.Workers)
	}
	if c.Mail.QueueSize < 1 {
		return fmt.Errorf("MAIL_QUEUE_SIZE debe ser >= 1, recibido %d", c.Mail.QueueSize)
	}
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER desconocido: %q", c.Store.Driver)
	}
	if c.Billing.WholesaleFee.IsNegative() {
		return fmt.Errorf("BILLING_WHOLESALE_FEE no puede ser negativo")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
