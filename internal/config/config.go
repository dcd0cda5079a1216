package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the server needs from the environment.
// Load it once in main, after godotenv has had a chance to populate
// the environment for local development.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Testing escape hatch: skip Postgres and run on the in-memory store.
	UseMemoryStore bool `envconfig:"USE_MEMORY_STORE" default:"false"`

	// Off by default: available slots are advisory and bookings are not
	// checked against them. Turn on to reject bookings outside a listed slot.
	StrictSlotCheck bool `envconfig:"STRICT_SLOT_CHECK" default:"false"`

	DB      DBConfig
	Twilio  TwilioConfig
	JWT     JWTConfig
	Payment PaymentConfig
}

type DBConfig struct {
	User string `envconfig:"DB_USER" default:"postgres"`
	Pass string `envconfig:"DB_PASS"`
	Name string `envconfig:"DB_NAME" default:"appointments"`
	Host string `envconfig:"DB_HOST" default:"localhost"`
	Port string `envconfig:"DB_PORT" default:"5432"`

	// Set on Cloud Run; switches the DSN to the Cloud SQL unix socket.
	InstanceConnectionName string `envconfig:"INSTANCE_CONNECTION_NAME"`
}

type TwilioConfig struct {
	AccountSID   string `envconfig:"TWILIO_ACCOUNT_SID"`
	AuthToken    string `envconfig:"TWILIO_AUTH_TOKEN"`
	WhatsAppFrom string `envconfig:"TWILIO_WHATSAPP_FROM"` // "whatsapp:+14155238886"
	SMSFrom      string `envconfig:"TWILIO_SMS_FROM"`
	OTPTemplate  string `envconfig:"TWILIO_OTP_TEMPLATE_SID"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL time.Duration `envconfig:"JWT_TOKEN_TTL" default:"24h"`
}

type PaymentConfig struct {
	GatewayURL    string `envconfig:"PAYMENT_GATEWAY_URL"`
	APIKey        string `envconfig:"PAYMENT_API_KEY"`
	WebhookSecret string `envconfig:"PAYMENT_WEBHOOK_SECRET"`
	SuccessURL    string `envconfig:"PAYMENT_SUCCESS_URL" default:"https://example.com/payment/success"`
	CancelURL     string `envconfig:"PAYMENT_CANCEL_URL" default:"https://example.com/payment/cancel"`
	Currency      string `envconfig:"PAYMENT_CURRENCY" default:"AED"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
