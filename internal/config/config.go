package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "INVENTORY"

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Config struct {
	HTTPAddr string `mapstructure:"http_addr" validate:"required"`
	GRPCAddr string `mapstructure:"grpc_addr" validate:"required"`

	Storage struct {
		Driver     string `mapstructure:"driver" validate:"oneof=memory sqlite mysql"`
		SQLitePath string `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
		MySQLDSN   string `mapstructure:"mysql_dsn" validate:"required_if=Driver mysql"`
	} `mapstructure:"storage"`

	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db" validate:"gte=0"`
		PoolSize int    `mapstructure:"pool_size" validate:"gt=0"`
	} `mapstructure:"redis"`

	Replication struct {
		Workers   int `mapstructure:"workers" validate:"gt=0"`
		QueueSize int `mapstructure:"queue_size" validate:"gte=0"`
	} `mapstructure:"replication"`

	Log struct {
		Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`

	// Seed applies only when the durable store is empty. File takes
	// precedence over the built-in defaults.
	Seed struct {
		Defaults bool   `mapstructure:"defaults"`
		File     string `mapstructure:"file"`
	} `mapstructure:"seed"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("grpc_addr", ":50051")

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "./data/inventory.db")
	v.SetDefault("storage.mysql_dsn", "root:root@tcp(localhost:3306)/inventory?parseTime=true")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 100)

	v.SetDefault("replication.workers", 4)
	v.SetDefault("replication.queue_size", 10000)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("seed.defaults", true)
	v.SetDefault("seed.file", "")
}

// Load reads configuration from defaults, the optional file at path and
// INVENTORY_* environment variables, in increasing precedence. Flags bound
// to v beforehand win over all of them.
func Load(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("inventory")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}
