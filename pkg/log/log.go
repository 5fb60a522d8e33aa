// Package log provides the logger interface used across the SDK, backed by zap.
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface consumed by SDK components.
type Logger interface {
	Debug(msg string, others ...interface{})
	Info(msg string, others ...interface{})
	Warning(msg string, others ...interface{})
	Error(msg string, others ...interface{})
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warningf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	With(args ...interface{}) Logger
}

type logger struct {
	sugar *zap.SugaredLogger
}

// DefaultLogger writes development formatted logs to stdout.
var DefaultLogger Logger = mustDevelopmentLogger()

func mustDevelopmentLogger() Logger {
	l, err := NewDefaultLogger()
	if err != nil {
		panic(err)
	}
	return l
}

// NewDefaultLogger returns a development logger.
func NewDefaultLogger() (Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zapLogger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &logger{sugar: zapLogger.Sugar()}, nil
}

// NewDefaultProductionLogger returns a JSON logger suitable for production.
func NewDefaultProductionLogger() (Logger, error) {
	zapLogger, err := zap.NewProduction(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &logger{sugar: zapLogger.Sugar()}, nil
}

// NewSilentLogger returns a logger which discards everything, for tests.
func NewSilentLogger() Logger {
	return &logger{sugar: zap.NewNop().Sugar()}
}

func (l *logger) Debug(msg string, others ...interface{})   { l.sugar.Debugw(msg, others...) }
func (l *logger) Info(msg string, others ...interface{})    { l.sugar.Infow(msg, others...) }
func (l *logger) Warning(msg string, others ...interface{}) { l.sugar.Warnw(msg, others...) }
func (l *logger) Error(msg string, others ...interface{})   { l.sugar.Errorw(msg, others...) }

func (l *logger) Debugf(template string, args ...interface{})   { l.sugar.Debugf(template, args...) }
func (l *logger) Infof(template string, args ...interface{})    { l.sugar.Infof(template, args...) }
func (l *logger) Warningf(template string, args ...interface{}) { l.sugar.Warnf(template, args...) }
func (l *logger) Errorf(template string, args ...interface{})   { l.sugar.Errorf(template, args...) }

func (l *logger) With(args ...interface{}) Logger {
	return &logger{sugar: l.sugar.With(args...)}
}
