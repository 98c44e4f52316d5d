package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

type Config struct {
	// 服务配置
	ServiceName    string `env:"OTEL_SERVICE_NAME" envDefault:"rolldice"`
	ServiceVersion string `env:"SERVICE_VERSION" envDefault:"1.0.0"`
	Environment    string `env:"DEPLOYMENT_ENVIRONMENT" envDefault:"local"` // local, development, staging, production

	// HTTP 模式配置
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	ServerHost string `env:"SERVER_HOST" envDefault:"0.0.0.0"`

	// OpenTelemetry 配置
	// Endpoint 不带协议前缀，exporter 使用 gRPC 直连
	OTLPEndpoint string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	SampleRatio  float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1.0"`

	// 模拟请求驱动配置
	RequestCount      int `env:"REQUEST_COUNT" envDefault:"10"`
	RequestIntervalMS int `env:"REQUEST_INTERVAL_MS" envDefault:"500"`

	// 日志配置
	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`

	// Snowflake ID 生成器配置
	SnowflakeMachineID  int64 `env:"SNOWFLAKE_MACHINE_ID" envDefault:"1"`
	SnowflakeDataCenter int64 `env:"SNOWFLAKE_DATACENTER_ID" envDefault:"1"`
}

func init() {

	if err := godotenv.Load(); err != nil {

		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	Load()
}

// Load 重新从环境变量解析配置
// 所有键都有默认值，缺失的变量永远回退到默认值而不是报错
func Load() {
	Cfg = Config{}
	if err := env.Parse(&Cfg); err != nil {
		log.Fatalf("Failed to parse environment variables: %v", err)
	}

	validateConfig()
}

func validateConfig() {
	if Cfg.SampleRatio <= 0 || Cfg.SampleRatio > 1 {
		log.Printf("WARN: OTEL_SAMPLE_RATIO %v out of range, falling back to 1.0", Cfg.SampleRatio)
		Cfg.SampleRatio = 1.0
	}

	if Cfg.RequestCount < 0 {
		log.Printf("WARN: REQUEST_COUNT %d is negative, falling back to 10", Cfg.RequestCount)
		Cfg.RequestCount = 10
	}

	if Cfg.RequestIntervalMS < 0 {
		log.Printf("WARN: REQUEST_INTERVAL_MS %d is negative, falling back to 500", Cfg.RequestIntervalMS)
		Cfg.RequestIntervalMS = 500
	}
}

// RequestInterval 返回模拟请求之间的固定停顿
func (c *Config) RequestInterval() time.Duration {
	return time.Duration(c.RequestIntervalMS) * time.Millisecond
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
