// Package config loads server settings from wellcalc.ini and secrets from
// the environment (optionally via a .env file).
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/units"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

type Config struct {
	Addr     string
	CertFile string
	KeyFile  string

	// login and register limiter, per client IP
	Rate  float64
	Burst int

	LogLevel log.Level

	DefaultRateUnit string

	TokenKey    string
	DatabaseURL string
}

// TLS reports whether both a certificate and key are configured.
func (c Config) TLS() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// Load reads the ini file at path, which may be missing, and then the
// environment. TOKEN_KEY is required.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	file := ini.Empty()
	if _, err := os.Stat(path); err == nil {
		if file, err = ini.Load(path); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	} else {
		log.WithField("path", path).Info("no config file, using defaults")
	}

	cfg, err := loadCfg(file)
	if err != nil {
		return Config{}, err
	}
	cfg.TokenKey = os.Getenv("TOKEN_KEY")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.TokenKey == "" {
		return Config{}, errors.New("TOKEN_KEY environment variable is not set")
	}
	return cfg, nil
}

func loadCfg(file *ini.File) (Config, error) {
	server := file.Section("server")
	cfg := Config{
		Addr:            server.Key("addr").MustString(":8443"),
		CertFile:        server.Key("cert").String(),
		KeyFile:         server.Key("key").String(),
		Rate:            server.Key("rate").MustFloat64(1),
		Burst:           server.Key("burst").MustInt(3),
		DefaultRateUnit: file.Section("calc").Key("default_rate_unit").MustString(units.RateM3PerMin),
	}

	level, err := log.ParseLevel(file.Section("log").Key("level").MustString("info"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	if cfg.Rate <= 0 || cfg.Burst <= 0 {
		return Config{}, fmt.Errorf("server rate and burst must be > 0, got %g/%d", cfg.Rate, cfg.Burst)
	}
	if _, err := units.RateToM3PerMin(1, cfg.DefaultRateUnit); err != nil {
		return Config{}, fmt.Errorf("calc default_rate_unit: %w", err)
	}
	return cfg, nil
}
