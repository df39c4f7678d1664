package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/voxgeo/server/geo"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

type DatabaseConfig struct {
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	Timezone string `mapstructure:"timezone"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RateLimitConfig struct {
	PerMinute int `mapstructure:"per_minute"`
	Burst     int `mapstructure:"burst"`
}

type PlaceConfig struct {
	Name string  `mapstructure:"name"`
	Lat  float64 `mapstructure:"lat"`
	Lng  float64 `mapstructure:"lng"`
}

// Place converts the configured coordinate into a map place.
func (p PlaceConfig) Place() geo.Place {
	return geo.Place{Name: p.Name, Point: geo.Point{Lat: p.Lat, Lng: p.Lng}}
}

type MapConfig struct {
	DefaultCenter PlaceConfig `mapstructure:"default_center"`
}

type DemoConfig struct {
	Center  PlaceConfig `mapstructure:"center"`
	Records int         `mapstructure:"records"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Map       MapConfig       `mapstructure:"map"`
	Demo      DemoConfig      `mapstructure:"demo"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("store.driver", DriverPostgres)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "voxgeo")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "America/Sao_Paulo")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ratelimit.per_minute", 10)
	v.SetDefault("ratelimit.burst", 5)

	v.SetDefault("map.default_center.name", geo.Jundiai.Name)
	v.SetDefault("map.default_center.lat", geo.Jundiai.Lat)
	v.SetDefault("map.default_center.lng", geo.Jundiai.Lng)

	v.SetDefault("demo.center.name", geo.Manaus.Name)
	v.SetDefault("demo.center.lat", geo.Manaus.Lat)
	v.SetDefault("demo.center.lng", geo.Manaus.Lng)
	v.SetDefault("demo.records", 50)
}

// Load reads defaults, an optional config file and the environment.
// An empty path looks for voxgeo.yaml in the working directory.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("VOXGEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// bare names used by hosting platforms
	binds := map[string]string{
		"server.port":       "PORT",
		"database.dsn":      "DATABASE_URL",
		"database.host":     "DB_HOST",
		"database.port":     "DB_PORT",
		"database.user":     "DB_USER",
		"database.password": "DB_PASSWORD",
		"database.name":     "DB_NAME",
	}
	for key, env := range binds {
		if err := v.BindEnv(key, "VOXGEO_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("voxgeo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	// comma separated origins from the environment
	if len(cfg.Server.AllowedOrigins) == 1 && strings.Contains(cfg.Server.AllowedOrigins[0], ",") {
		cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins[0])
	}
	if cfg.Demo.Records <= 0 {
		cfg.Demo.Records = 50
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ConnString returns the configured connection string, or builds one from the parts.
func (d DatabaseConfig) ConnString() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.Timezone)
}

// SetupLogger applies level and format to the standard logrus logger.
func SetupLogger(cfg LogConfig) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("log format %q: want text or json", cfg.Format)
	}
	return nil
}

// ConnectDB opens the PostgreSQL connection.
func ConnectDB(cfg DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.ConnString()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	logrus.WithField("host", cfg.Host).Info("connected to PostgreSQL")
	return db, nil
}
