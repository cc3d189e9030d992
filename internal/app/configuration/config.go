package configuration

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	AdminPort int    `env:"ADMIN_PORT,default=8080"` // Port the mock service admin API listens on
	PactDir   string `env:"PACT_DIR,default=pacts"`  // Default directory pact files are written to
	LogLevel  string `env:"LOG_LEVEL,default=info"`
}

func NewFromEnv() (Config, error) {
	ctx := context.Background()

	var config Config
	err := envconfig.Process(ctx, &config)
	if err != nil {
		return config, errors.Wrap(err, "process env config")
	}
	return config, nil
}
