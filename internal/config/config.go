package config

import (
	"os"
	"strconv"
)

type TelemetryServiceConfig struct {
	Port        string
	PostgresCfg PostgresConfig
	RedisCfg    RedisConfig
	RabbitMQCfg RabbitMQConfig
	InfluxCfg   InfluxConfig
	MLAPICfg    MLAPIConfig
	DeviceCfg   DeviceConfig
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

type InfluxConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

type MLAPIConfig struct {
	BaseURL string
	Timeout int
}

type DeviceConfig struct {
	// Minutes without telemetry before a device is swept to INACTIVE.
	InactiveAfterMinutes int
	SweepSchedule        string
}

func New() *TelemetryServiceConfig {
	return &TelemetryServiceConfig{
		Port: getEnvOrDefault("PORT", "8086"),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "soilsense"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		InfluxCfg: InfluxConfig{
			URL:    getEnvOrDefault("INFLUXDB_URL", ""),
			Token:  getEnvOrDefault("INFLUXDB_TOKEN", ""),
			Org:    getEnvOrDefault("INFLUXDB_ORG", "soilsense"),
			Bucket: getEnvOrDefault("INFLUXDB_BUCKET", "telemetry"),
		},
		MLAPICfg: MLAPIConfig{
			BaseURL: getEnvOrDefault("ML_API_URL", ""),
			Timeout: getEnvIntOrDefault("ML_API_TIMEOUT_SECONDS", 10),
		},
		DeviceCfg: DeviceConfig{
			InactiveAfterMinutes: getEnvIntOrDefault("DEVICE_INACTIVE_AFTER_MINUTES", 30),
			SweepSchedule:        getEnvOrDefault("DEVICE_SWEEP_SCHEDULE", "*/10 * * * *"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
