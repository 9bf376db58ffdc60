package logger

import "go.uber.org/zap"

type LoggerConfig struct {
	Debug bool
}

// NewLogger builds the process logger: production config by default,
// development config with debug level when Debug is set.
func NewLogger(cfg *LoggerConfig) (*zap.Logger, error) {
	if cfg != nil && cfg.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
