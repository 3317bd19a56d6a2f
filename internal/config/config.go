package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local"`
	MySQLDSN string `env:"MYSQL_DSN" envDefault:"root:123@tcp(localhost:3309)/fairplay?charset=utf8mb4,utf8&parseTime=True&loc=Local"`
	HTTPServer
}

type HTTPServer struct {
	Address     string        `env:"HTTP_ADDRESS" envDefault:"localhost:8080"`
	Timeout     time.Duration `env:"HTTP_TIMEOUT" envDefault:"4s"`
	IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

func MustLoad() *Config {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}
