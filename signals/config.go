package signals

import "github.com/kelseyhightower/envconfig"

type Config struct {
	Address           string `envconfig:"ADHERENCE_REDIS_ADDRESS" default:"localhost:6379"`
	Password          string `envconfig:"ADHERENCE_REDIS_PASSWORD"`
	DB                int    `envconfig:"ADHERENCE_REDIS_DB" default:"0"`
	ChangesChannel    string `envconfig:"ADHERENCE_REDIS_CHANGES_CHANNEL" default:"adherence:changes"`
	IndicatorsChannel string `envconfig:"ADHERENCE_REDIS_INDICATORS_CHANNEL" default:"adherence:indicators"`
	IndicatorTTL      string `envconfig:"ADHERENCE_REDIS_INDICATOR_TTL" default:"24h"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
