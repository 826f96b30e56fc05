package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

var ErrConfiguration = errors.New("invalid configuration")

const (
	ProviderIyzico      = "iyzico"
	ProviderMercadoPago = "mercadopago"
	ProviderMock        = "mock"

	TransportSNS   = "sns"
	TransportKafka = "kafka"
	TransportNone  = "none"
)

type GatewayConfig struct {
	Provider      string
	APIKey        string
	SecretKey     string
	WebhookSecret string
	BaseURL       string
	Environment   string
	SecretsID     string
	Timeout       time.Duration
}

type NotifyConfig struct {
	Transport    string
	TopicARN     string
	KafkaBrokers []string
	KafkaTopic   string
}

type Config struct {
	Env                 string
	Port                string
	CallbackURL         string
	Gateway             GatewayConfig
	RetrieveMaxAttempts int
	RetrieveBackoff     time.Duration
	Notify              NotifyConfig
}

// SecretGetter reads a secret string by id (AWS Secrets Manager in production).
type SecretGetter interface {
	GetSecret(ctx context.Context, id string) (string, error)
}

type gatewaySecret struct {
	APIKey        string `json:"apiKey"`
	SecretKey     string `json:"secretKey"`
	WebhookSecret string `json:"webhookSecret"`
}

var defaults = map[string]any{
	"APP_ENV":               "development",
	"PORT":                  "8080",
	"GATEWAY_PROVIDER":      ProviderIyzico,
	"GATEWAY_ENVIRONMENT":   "sandbox",
	"GATEWAY_TIMEOUT":       30 * time.Second,
	"RETRIEVE_BACKOFF":      200 * time.Millisecond,
	"RETRIEVE_MAX_ATTEMPTS": 3,
	"NOTIFY_TRANSPORT":      TransportNone,
	"KAFKA_ORDER_TOPIC":     "order-events",
}

// Load reads the process configuration from the environment. When
// GATEWAY_SECRETS_ID is set, gateway credentials are read from secrets and
// override the plain env values.
func Load(ctx context.Context, secrets SecretGetter) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, def := range defaults {
		v.SetDefault(key, def)
	}

	str := func(key string) string { return strings.TrimSpace(v.GetString(key)) }

	cfg := Config{
		Env:         str("APP_ENV"),
		Port:        str("PORT"),
		CallbackURL: str("CALLBACK_URL"),
		Gateway: GatewayConfig{
			Provider:      strings.ToLower(str("GATEWAY_PROVIDER")),
			APIKey:        v.GetString("GATEWAY_API_KEY"),
			SecretKey:     v.GetString("GATEWAY_SECRET_KEY"),
			WebhookSecret: v.GetString("WEBHOOK_SECRET"),
			BaseURL:       strings.TrimRight(v.GetString("GATEWAY_BASE_URL"), "/"),
			Environment:   strings.ToLower(str("GATEWAY_ENVIRONMENT")),
			SecretsID:     v.GetString("GATEWAY_SECRETS_ID"),
		},
		Notify: NotifyConfig{
			Transport:  strings.ToLower(str("NOTIFY_TRANSPORT")),
			TopicARN:   v.GetString("ORDER_EVENTS_TOPIC_ARN"),
			KafkaTopic: str("KAFKA_ORDER_TOPIC"),
		},
	}
	for _, b := range strings.Split(str("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.Notify.KafkaBrokers = append(cfg.Notify.KafkaBrokers, b)
		}
	}
	if mockEnabled(v) {
		cfg.Gateway.Provider = ProviderMock
	}

	var err error
	if cfg.Gateway.Timeout, err = positiveDuration(v, "GATEWAY_TIMEOUT"); err != nil {
		return Config{}, err
	}
	if cfg.RetrieveBackoff, err = positiveDuration(v, "RETRIEVE_BACKOFF"); err != nil {
		return Config{}, err
	}
	if cfg.RetrieveMaxAttempts, err = cast.ToIntE(v.Get("RETRIEVE_MAX_ATTEMPTS")); err != nil {
		return Config{}, fmt.Errorf("%w: RETRIEVE_MAX_ATTEMPTS must be an integer", ErrConfiguration)
	}

	if cfg.Gateway.SecretsID != "" {
		if secrets == nil {
			return Config{}, fmt.Errorf("%w: GATEWAY_SECRETS_ID set but no secrets client", ErrConfiguration)
		}
		if err := applyGatewaySecret(ctx, secrets, &cfg.Gateway); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyGatewaySecret(ctx context.Context, secrets SecretGetter, g *GatewayConfig) error {
	raw, err := secrets.GetSecret(ctx, g.SecretsID)
	if err != nil {
		return fmt.Errorf("%w: gateway secret: %v", ErrConfiguration, err)
	}
	var sec gatewaySecret
	if err := json.Unmarshal([]byte(raw), &sec); err != nil {
		return fmt.Errorf("%w: gateway secret is not valid JSON", ErrConfiguration)
	}
	if sec.APIKey != "" {
		g.APIKey = sec.APIKey
	}
	if sec.SecretKey != "" {
		g.SecretKey = sec.SecretKey
	}
	if sec.WebhookSecret != "" {
		g.WebhookSecret = sec.WebhookSecret
	}
	return nil
}

func (c Config) validate() error {
	switch c.Gateway.Provider {
	case ProviderMock:
	case ProviderIyzico:
		if c.Gateway.APIKey == "" || c.Gateway.SecretKey == "" {
			return fmt.Errorf("%w: iyzico requires GATEWAY_API_KEY and GATEWAY_SECRET_KEY", ErrConfiguration)
		}
	case ProviderMercadoPago:
		if c.Gateway.APIKey == "" {
			return fmt.Errorf("%w: mercadopago requires GATEWAY_API_KEY (access token)", ErrConfiguration)
		}
		if c.Gateway.WebhookSecret == "" {
			return fmt.Errorf("%w: mercadopago requires WEBHOOK_SECRET", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown GATEWAY_PROVIDER %q", ErrConfiguration, c.Gateway.Provider)
	}

	switch c.Gateway.Environment {
	case "sandbox", "production":
	default:
		return fmt.Errorf("%w: GATEWAY_ENVIRONMENT must be sandbox or production", ErrConfiguration)
	}

	switch c.Notify.Transport {
	case TransportNone:
	case TransportSNS:
		if c.Notify.TopicARN == "" {
			return fmt.Errorf("%w: sns transport requires ORDER_EVENTS_TOPIC_ARN", ErrConfiguration)
		}
	case TransportKafka:
		if len(c.Notify.KafkaBrokers) == 0 {
			return fmt.Errorf("%w: kafka transport requires KAFKA_BROKERS", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown NOTIFY_TRANSPORT %q", ErrConfiguration, c.Notify.Transport)
	}

	if c.RetrieveMaxAttempts < 1 {
		return fmt.Errorf("%w: RETRIEVE_MAX_ATTEMPTS must be at least 1", ErrConfiguration)
	}
	return nil
}

// positiveDuration accepts Go duration strings; bare numbers are nanoseconds.
func positiveDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := cast.ToDurationE(v.Get(key))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive duration", ErrConfiguration, key)
	}
	return d, nil
}

func mockEnabled(v *viper.Viper) bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		switch strings.ToLower(strings.TrimSpace(v.GetString(key))) {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}
