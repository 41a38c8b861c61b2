package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/HanapBahay/service-booking/internal/pkg/database"
)

// KafkaConfig holds broker addresses and the consumer group prefix.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// JWTConfig holds the token signing secret.
type JWTConfig struct {
	Secret string
}

// PayMongoConfig holds the gateway credentials and redirect targets.
type PayMongoConfig struct {
	BaseURL    string
	SecretKey  string
	SuccessURL string
	CancelURL  string
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port     string
	AppEnv   string
	DB       database.PostgresConfig
	JWT      JWTConfig
	Kafka    KafkaConfig
	PayMongo PayMongoConfig
}

// Load reads configuration from BOOKING_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", ":8084")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "booking")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "hanapbahay-")
	v.SetDefault("PAYMONGO_BASE_URL", "https://api.paymongo.com")
	v.SetDefault("PAYMONGO_SECRET_KEY", "")
	v.SetDefault("PAYMONGO_SUCCESS_URL", "app://payments/success")
	v.SetDefault("PAYMONGO_CANCEL_URL", "app://payments/cancel")

	return &ServiceConfig{
		Port:   v.GetString("SERVICE_PORT"),
		AppEnv: v.GetString("APP_ENV"),
		DB: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{Secret: v.GetString("JWT_SECRET")},
		Kafka: KafkaConfig{
			Brokers:     strings.Split(v.GetString("KAFKA_BROKERS"), ","),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		PayMongo: PayMongoConfig{
			BaseURL:    v.GetString("PAYMONGO_BASE_URL"),
			SecretKey:  v.GetString("PAYMONGO_SECRET_KEY"),
			SuccessURL: v.GetString("PAYMONGO_SUCCESS_URL"),
			CancelURL:  v.GetString("PAYMONGO_CANCEL_URL"),
		},
	}, nil
}
