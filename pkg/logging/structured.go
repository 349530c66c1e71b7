package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps both slog and zap loggers.
type Logger struct {
	slog *slog.Logger
	zap  *zap.Logger
}

// Config holds logging configuration.
type Config struct {
	Level     string
	Format    string // "json" or "console"
	Output    string // "stdout" or "stderr"
	AddCaller bool
	AddStack  bool
}

// DefaultConfig returns production logging defaults.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json", Output: "stderr"}
}

// NewLogger creates a new structured logger.
func NewLogger(config Config) (*Logger, error) {
	slogLevel := parseSlogLevel(config.Level)
	slogHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel,
	})
	slogLogger := slog.New(slogHandler)

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = parseZapLevel(config.Level)
	zapConfig.Encoding = config.Format
	zapConfig.OutputPaths = []string{config.Output}
	zapConfig.ErrorOutputPaths = []string{config.Output}
	zapConfig.DisableCaller = !config.AddCaller
	zapConfig.DisableStacktrace = !config.AddStack

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		slog: slogLogger,
		zap:  zapLogger,
	}, nil
}

// NewNop returns a logger that discards everything; handy in tests.
func NewNop() *Logger {
	return &Logger{
		slog: slog.New(slog.NewTextHandler(io.Discard, nil)),
		zap:  zap.NewNop(),
	}
}

func parseSlogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseZapLevel(level string) zap.AtomicLevel {
	switch level {
	case "debug":
		return zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "info":
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
}

// WithFields adds fields to logger context.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	slogAttrs := make([]any, 0, len(fields)*2)
	zapFields := make([]zap.Field, 0, len(fields))

	for key, value := range fields {
		slogAttrs = append(slogAttrs, key, value)
		zapFields = append(zapFields, zap.Any(key, value))
	}

	return &Logger{
		slog: l.slog.With(slogAttrs...),
		zap:  l.zap.With(zapFields...),
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.slog.Debug(msg, args...)
	l.zap.Debug(msg, convertToZapFields(args)...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...interface{}) {
	l.slog.Info(msg, args...)
	l.zap.Info(msg, convertToZapFields(args)...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.slog.Warn(msg, args...)
	l.zap.Warn(msg, convertToZapFields(args)...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...interface{}) {
	l.slog.Error(msg, args...)
	l.zap.Error(msg, convertToZapFields(args)...)
}

func convertToZapFields(args []interface{}) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	fields := make([]zap.Field, 0, len(args)/2)
	for i := 0; i < len(args)-1; i += 2 {
		if key, ok := args[i].(string); ok {
			fields = append(fields, zap.Any(key, args[i+1]))
		}
	}
	return fields
}

// LogDetection logs one cascade outcome.
func (l *Logger) LogDetection(stage, domain, intent string, confidence float64, matched string) {
	l.WithFields(map[string]interface{}{
		"stage":      stage,
		"domain":     domain,
		"intent":     intent,
		"confidence": confidence,
		"matched":    matched,
	}).Debug("detection resolved")
}

// LogLLMRequest logs an LLM fallback call.
func (l *Logger) LogLLMRequest(model, status string, duration time.Duration, tokens int, cost float64) {
	l.WithFields(map[string]interface{}{
		"model":       model,
		"status":      status,
		"duration_ms": float64(duration.Nanoseconds()) / 1e6,
		"tokens":      tokens,
		"cost":        cost,
	}).Info("llm request completed")
}

// LogSampler logs one Langevin run summary.
func (l *Logger) LogSampler(problemType string, chains, steps int, bestEnergy float64, converged bool, duration time.Duration) {
	l.WithFields(map[string]interface{}{
		"problem_type": problemType,
		"chains":       chains,
		"steps":        steps,
		"best_energy":  bestEnergy,
		"converged":    converged,
		"duration_ms":  float64(duration.Nanoseconds()) / 1e6,
	}).Info("sampler run completed")
}

// LogRouting logs a routing decision.
func (l *Logger) LogRouting(decision, reason string, confidence float64) {
	l.WithFields(map[string]interface{}{
		"decision":   decision,
		"reason":     reason,
		"confidence": confidence,
	}).Debug("routing decided")
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}
