package db

import (
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Debug().Msgf(format, args...)
}

// NewGormLogger routes gorm's query log through zerolog. Queries are
// logged at debug, slow queries are flagged over 200ms.
func NewGormLogger(log zerolog.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if log.GetLevel() <= zerolog.DebugLevel {
		level = gormlogger.Info
	}

	return gormlogger.New(gormWriter{log: log.With().Str("component", "gorm").Logger()}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
