package config

import (
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/locadora/reservation-service/internal/service"
	"github.com/locadora/reservation-service/pkg/kafka"
	"github.com/locadora/reservation-service/pkg/logger"
	"github.com/locadora/reservation-service/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"RESERVATION_HTTP_HOST"`
	Port         string        `yaml:"port" envconfig:"RESERVATION_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"30s"`
	WriteTimeout time.Duration
}

type Config struct {
	Server   HTTPServer           `yaml:"server"`
	Database postgres.DB          `yaml:"db"`
	Kafka    kafka.Config         `yaml:"kafka"`
	Notify   service.NotifyConfig `yaml:"notify"`
	Sweep    service.SweepConfig  `yaml:"sweep"`
	Log      logger.Log           `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
	})

	return cfg
}
