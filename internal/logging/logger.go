package logging

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger *zap.SugaredLogger
)

// Init builds the process logger. Output is JSON in every environment;
// production only changes sampling and stack trace thresholds. An empty
// level keeps the environment default.
func Init(appEnv string, level string) error {
	cfg := zap.NewDevelopmentConfig()
	if appEnv == "production" {
		cfg = zap.NewProductionConfig()
	}
	cfg.Encoding = "json"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.InitialFields = map[string]interface{}{"service": "paddock", "env": appEnv}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	built, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	mu.Lock()
	logger = built.Sugar()
	mu.Unlock()
	return nil
}

// GetLogger returns the process logger, falling back to a production logger
// when Init was never called (tests, early startup errors).
func GetLogger() *zap.SugaredLogger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		fallback, _ := zap.NewProduction()
		logger = fallback.Sugar()
	}
	return logger
}

// Close flushes buffered entries
func Close() error {
	mu.RLock()
	defer mu.RUnlock()
	if logger == nil {
		return nil
	}
	return logger.Sync()
}

func Info(msg string, kv ...interface{})  { GetLogger().Infow(msg, kv...) }
func Debug(msg string, kv ...interface{}) { GetLogger().Debugw(msg, kv...) }
func Warn(msg string, kv ...interface{})  { GetLogger().Warnw(msg, kv...) }
func Error(msg string, kv ...interface{}) { GetLogger().Errorw(msg, kv...) }

// Fatal logs and exits with status 1
func Fatal(msg string, kv ...interface{}) {
	l := GetLogger()
	l.Errorw(msg, kv...)
	_ = l.Sync()
	os.Exit(1)
}

// With returns a child logger carrying kv on every entry
func With(kv ...interface{}) *zap.SugaredLogger {
	return GetLogger().With(kv...)
}

// ForFlow tags entries of one flow run
func ForFlow(flow, farm, date string) *zap.SugaredLogger {
	return With("flow", flow, "farm", farm, "date", date)
}

// WithRequest tags entries of one HTTP request
func WithRequest(requestID string, endpoint string) *zap.SugaredLogger {
	return With("request_id", requestID, "endpoint", endpoint)
}
