package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/hydrokeeper/internal/common"
	"github.com/kelseyhightower/envconfig"
)

// envConfig mirrors Config for envconfig. Unset variables leave the
// current value untouched.
type envConfig struct {
	DBPath           string `split_words:"true"`
	LogLevel         string `split_words:"true"`
	LogFormat        string `split_words:"true"`
	Timezone         string
	OperationTimeout time.Duration `split_words:"true"`
	Retries          int
	MetricsTextfile  string `split_words:"true"`
}

// parseEnv overlays cfg with HYDRO_* environment variables.
func parseEnv(cfg *Config) error {
	ec := envConfig(*cfg)
	if err := envconfig.Process(common.EnvPrefix, &ec); err != nil {
		return fmt.Errorf("failed to process environment variables: %w", err)
	}
	*cfg = Config(ec)
	return nil
}
