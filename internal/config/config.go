package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/corray333/backend-labs/dukan/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// MustInit reads flags, the optional .env file and config.yaml into viper
// and installs the default logger.
func MustInit() {
	MustLoad(os.Args[1:])
	SetupLogger()
}

// MustLoad is MustInit without the logger, for callers that parse their own args.
func MustLoad(args []string) {
	flags := pflag.NewFlagSet("dukan", pflag.ContinueOnError)
	flags.String("config", "", "path to config.yaml")
	flags.String("env-file", "./.env", "path to the .env file with secrets")
	flags.String("log-level", "", "override log.level")
	if err := flags.Parse(args); err != nil {
		panic("error while parsing flags: " + err.Error())
	}

	envFile, _ := flags.GetString("env-file")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("error while loading .env file: " + err.Error())
	}

	SetDefaults()
	viper.SetEnvPrefix("dukan")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlag("log.level", flags.Lookup("log-level")); err != nil {
		panic(err)
	}

	if path, _ := flags.GetString("config"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("/etc/dukan")
		viper.AddConfigPath(".")
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			panic("error while reading config file: " + err.Error())
		}
	}
}

// SetDefaults registers the value of every key the service reads.
func SetDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")

	viper.SetDefault("server.http.port", "8080")
	viper.SetDefault("server.http.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.http.cors.allowed_origins", []string{"*"})
	viper.SetDefault("server.http.cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	viper.SetDefault("server.http.cors.allowed_headers", []string{"Accept", "Content-Type", "X-Request-Id"})
	viper.SetDefault("server.http.cors.exposed_headers", []string{"X-Request-Id"})
	viper.SetDefault("server.http.cors.allow_credentials", false)
	viper.SetDefault("server.http.cors.max_age", 300)

	// memory, redis or postgres
	viper.SetDefault("store.backend", "memory")
	viper.SetDefault("store.max_value_bytes", 5<<20)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.prefix", "")

	viper.SetDefault("orders.strict_transitions", false)

	viper.SetDefault("payments.upi_id", "dukan@upi")
	viper.SetDefault("payments.payee_name", "Dukan.AI Store")
	viper.SetDefault("payments.qr_code_url", "https://api.qrserver.com/v1/create-qr-code/")

	viper.SetDefault("simulator.min_delay", 20*time.Second)
	viper.SetDefault("simulator.max_delay", 40*time.Second)

	viper.SetDefault("insights.model", "gemini-2.5-flash")
	viper.SetDefault("insights.breaker.max_failures", 3)
	viper.SetDefault("insights.breaker.open_timeout", time.Minute)

	viper.SetDefault("rabbitmq.enabled", false)
	viper.SetDefault("rabbitmq.host", "localhost")
	viper.SetDefault("rabbitmq.port", "5672")
	viper.SetDefault("rabbitmq.exchange", "dukan.orders")
	viper.SetDefault("rabbitmq.queue", "")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.jaeger_endpoint", "http://jaeger:14268/api/traces")
}

func SetupLogger() {
	handler := logger.NewHandler(&logger.HandlerOptions{
		Level:  logger.ParseLevel(viper.GetString("log.level")),
		Format: viper.GetString("log.format"),
	})
	log := slog.New(handler)
	slog.SetDefault(log)
}
