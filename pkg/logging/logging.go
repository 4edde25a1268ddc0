// Package logging builds the zap logger and the ectologger adapter the rest of the service logs through
package logging

import (
	"encoding/json"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the zap level and encoder
type Config struct {
	Level  string
	Format string // json or console
}

// NewZap builds a production (json) or development (console) zap logger
func NewZap(cfg Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, eris.Wrap(err, "logging: parse log level")
	}
	zapCfg.Level.SetLevel(parsed)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "logging: build logger")
	}
	return logger, nil
}

// New returns an ectologger that writes every entry to z at the entry's level
func New(z *zap.Logger) ectologger.Logger {
	return ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		write(z, msg)
	})
}

// Nop discards every entry
func Nop() ectologger.Logger {
	return ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {})
}

func write(z *zap.Logger, msg ectologger.EctoLogMessage) {
	entry := flatten(msg)

	message, _ := pop(entry, "message", "msg").(string)
	if message == "" {
		message = "log"
	}
	level := zapcore.InfoLevel
	if raw, ok := pop(entry, "level").(string); ok {
		if parsed, err := zapcore.ParseLevel(strings.ToLower(raw)); err == nil {
			level = parsed
		}
	}

	fields := make([]zap.Field, 0, len(entry))
	for k, v := range entry {
		fields = append(fields, zap.Any(k, v))
	}

	if ce := z.Check(level, message); ce != nil {
		ce.Write(fields...)
	}
}

// flatten turns an entry into a map keyed by lowercase field name, nested field maps merged in
func flatten(msg ectologger.EctoLogMessage) map[string]any {
	entry := map[string]any{}
	b, err := json.Marshal(msg)
	if err != nil {
		return entry
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return entry
	}
	for k, v := range raw {
		key := strings.ToLower(k)
		if nested, ok := v.(map[string]any); ok && key == "fields" {
			for nk, nv := range nested {
				entry[nk] = nv
			}
			continue
		}
		if v == nil || v == "" {
			continue
		}
		entry[key] = v
	}
	return entry
}

func pop(entry map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := entry[k]; ok {
			delete(entry, k)
			return v
		}
	}
	return nil
}
