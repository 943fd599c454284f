package services

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger defines common logging interface for all services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// LoggerOptions controls where and how much the production logger writes.
type LoggerOptions struct {
	Service     string
	Level       string // DEBUG, INFO, WARN, ERROR
	Environment string // "production" switches the console to JSON
	FilePath    string // optional rotated JSON log file
}

// ProductionLogger adapts a zap SugaredLogger to the key/value Logger interface.
type ProductionLogger struct {
	sugar *zap.SugaredLogger
}

// NewProductionLogger builds a console logger and, when opts.FilePath is set,
// a rotated JSON file sink alongside it.
func NewProductionLogger(opts LoggerOptions) *ProductionLogger {
	level := parseLevel(opts.Level)

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	jsonEncoder := zapcore.NewJSONEncoder(encoderConfig)

	var consoleEncoder zapcore.Encoder
	if strings.EqualFold(opts.Environment, "production") {
		consoleEncoder = jsonEncoder
	} else {
		consoleEncoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), level),
	}
	if opts.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(jsonEncoder, zapcore.AddSync(rotator), level))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	if opts.Service != "" {
		l = l.With(zap.String("service", opts.Service))
	}
	return &ProductionLogger{sugar: l.Sugar()}
}

func (p *ProductionLogger) Info(msg string, keysAndValues ...interface{}) {
	p.sugar.Infow(msg, keysAndValues...)
}

func (p *ProductionLogger) Error(msg string, keysAndValues ...interface{}) {
	p.sugar.Errorw(msg, keysAndValues...)
}

func (p *ProductionLogger) Debug(msg string, keysAndValues ...interface{}) {
	p.sugar.Debugw(msg, keysAndValues...)
}

func (p *ProductionLogger) Warn(msg string, keysAndValues ...interface{}) {
	p.sugar.Warnw(msg, keysAndValues...)
}

// Sync flushes buffered entries. Call it before exit.
func (p *ProductionLogger) Sync() error {
	return p.sugar.Sync()
}

// NoOpLogger is a logger that does nothing (for testing)
type NoOpLogger struct{}

func (n *NoOpLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *NoOpLogger) Error(msg string, keysAndValues ...interface{}) {}
func (n *NoOpLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *NoOpLogger) Warn(msg string, keysAndValues ...interface{})  {}

// NewLogger picks a logger from the environment: GO_ENV=test yields a no-op logger.
func NewLogger(service string) Logger {
	if os.Getenv("GO_ENV") == "test" {
		return &NoOpLogger{}
	}
	return NewProductionLogger(LoggerOptions{
		Service:     service,
		Level:       os.Getenv("LOG_LEVEL"),
		Environment: os.Getenv("ENV"),
		FilePath:    os.Getenv("LOG_FILE"),
	})
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
