package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/restaurant-pos/gateway"
	"github.com/yeremiapane/restaurant-pos/pos"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DBDriver string
	DBDSN    string

	JWTSecret string

	SeedAdminEmail    string
	SeedAdminPassword string

	BackendURL     string
	BackendTimeout time.Duration
	ReleaseStatus  pos.TableStatus
}

// Load membaca .env (jika ada) lalu environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("config: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:             getEnv("DB_DSN", "restaurant_pos.db"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		SeedAdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
		BackendURL:        getEnv("POS_BACKEND_URL", "http://localhost:8080"),
	}

	timeout, err := time.ParseDuration(getEnv("POS_BACKEND_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("POS_BACKEND_TIMEOUT: %w", err)
	}
	cfg.BackendTimeout = timeout

	status, err := pos.ParseTableStatus(getEnv("POS_RELEASE_STATUS", string(pos.StatusAvailable)))
	if err != nil {
		return nil, fmt.Errorf("POS_RELEASE_STATUS: %w", err)
	}
	cfg.ReleaseStatus = status

	switch cfg.DBDriver {
	case "sqlite", "mysql":
	default:
		return nil, fmt.Errorf("DB_DRIVER must be sqlite or mysql, got %q", cfg.DBDriver)
	}

	return cfg, nil
}

// InitDB membuka koneksi database sesuai DB_DRIVER.
func InitDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DBDSN)
	default:
		dialector = sqlite.Open(cfg.DBDSN)
	}

	gormLog := logger.Default.LogMode(logger.Warn)
	if cfg.GinMode == "release" {
		gormLog = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	return db, nil
}

// GatewayClient builds the backend client used by a terminal.
func (c *Config) GatewayClient(log logrus.FieldLogger) *gateway.Client {
	return gateway.New(c.BackendURL,
		gateway.WithTimeout(c.BackendTimeout),
		gateway.WithLogger(log),
	)
}

// Terminal wires a terminal session on top of gw.
func (c *Config) Terminal(gw pos.Gateway, log logrus.FieldLogger) *pos.Terminal {
	coord := pos.NewCoordinator(gw, pos.WithLogger(log))
	return pos.NewTerminal(coord,
		pos.WithReleaseStatus(c.ReleaseStatus),
		pos.WithTerminalLogger(log),
	)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
