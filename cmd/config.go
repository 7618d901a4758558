package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"farmacia/internal/core/domain/model/settings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	HTTPPort string

	StorageDriver string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSslMode     string

	OperatingMode     string
	StoreName         string
	StoreDefaultPhone string

	PollInterval   time.Duration
	PollingEnabled bool

	KafkaBrokers     []string
	KafkaStatusTopic string

	OTLPEndpoint string
}

var defaults = map[string]any{
	"http_port":                   "8080",
	"storage_driver":              StoragePostgres,
	"db_host":                     "localhost",
	"db_port":                     "5432",
	"db_user":                     "postgres",
	"db_password":                 "postgres",
	"db_name":                     "farmacia",
	"db_sslmode":                  "disable",
	"operating_mode":              settings.ManualNotify.String(),
	"store_name":                  "",
	"store_default_phone":         "",
	"poll_interval":               "30s",
	"polling_enabled":             true,
	"kafka_brokers":               "",
	"kafka_status_topic":          "order-status-changed",
	"otel_exporter_otlp_endpoint": "",
}

// LoadConfig reads configuration from the environment, after loading envFile if it exists.
// Variables are the upper-cased keys of defaults, e.g. HTTP_PORT or POLL_INTERVAL.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := Config{
		HTTPPort:          v.GetString("http_port"),
		StorageDriver:     strings.ToLower(v.GetString("storage_driver")),
		DBHost:            v.GetString("db_host"),
		DBPort:            v.GetString("db_port"),
		DBUser:            v.GetString("db_user"),
		DBPassword:        v.GetString("db_password"),
		DBName:            v.GetString("db_name"),
		DBSslMode:         v.GetString("db_sslmode"),
		OperatingMode:     v.GetString("operating_mode"),
		StoreName:         v.GetString("store_name"),
		StoreDefaultPhone: v.GetString("store_default_phone"),
		PollInterval:      v.GetDuration("poll_interval"),
		PollingEnabled:    v.GetBool("polling_enabled"),
		KafkaBrokers:      splitList(v.GetString("kafka_brokers")),
		KafkaStatusTopic:  v.GetString("kafka_status_topic"),
		OTLPEndpoint:      v.GetString("otel_exporter_otlp_endpoint"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted sensibly.
func (c Config) Validate() error {
	var problems []error

	if c.StorageDriver != StorageMemory && c.StorageDriver != StoragePostgres {
		problems = append(problems, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q",
			StorageMemory, StoragePostgres, c.StorageDriver))
	}
	if c.PollInterval <= 0 {
		problems = append(problems, fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval))
	}
	if _, err := settings.ParseOperatingMode(c.OperatingMode); err != nil {
		problems = append(problems, fmt.Errorf("OPERATING_MODE: %w", err))
	}

	return errors.Join(problems...)
}

// Settings returns the operating mode and store profile.
func (c Config) Settings() (settings.Settings, error) {
	mode, err := settings.ParseOperatingMode(c.OperatingMode)
	if err != nil {
		return settings.Settings{}, err
	}

	return settings.Settings{
		Mode: mode,
		Store: settings.StoreProfile{
			Name:                c.StoreName,
			DefaultContactPhone: c.StoreDefaultPhone,
		},
	}, nil
}

// DSN builds the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
