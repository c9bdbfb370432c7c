// Package logsvc provides core.Logger implementations: a logrus logger for
// development and a rollbar reporter for deployed environments.
package logsvc

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/trezcool/shule/core"
)

// NewLogger selects the logger for the current environment: rollbar when a
// token is configured outside dev/test, logrus otherwise.
func NewLogger(conf *core.Config) core.Logger {
	if conf.Rollbar.Token != "" && !(conf.Debug || conf.TestMode) {
		return NewRollbarLogger(log.New(os.Stderr, "", log.LstdFlags), conf)
	}
	return NewStdLogger(conf)
}

type StdLogger struct {
	log *logrus.Logger
}

var _ core.Logger = (*StdLogger)(nil)

func NewStdLogger(conf *core.Config) *StdLogger {
	log := logrus.New()
	if conf.Debug {
		log.SetLevel(logrus.DebugLevel)
	}
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &StdLogger{log: log}
}

func (l *StdLogger) entry(args []interface{}) *logrus.Entry {
	fields := logrus.Fields{}
	for i, arg := range args {
		switch v := arg.(type) {
		case error:
			fields[logrus.ErrorKey] = v
		case map[string]interface{}:
			for k, val := range v {
				fields[k] = val
			}
		default:
			fields[fmt.Sprintf("arg%d", i)] = v
		}
	}
	return l.log.WithFields(fields)
}

func (l *StdLogger) Debug(msg string, args ...interface{}) { l.entry(args).Debug(msg) }
func (l *StdLogger) Info(msg string, args ...interface{})  { l.entry(args).Info(msg) }
func (l *StdLogger) Warn(msg string, args ...interface{})  { l.entry(args).Warn(msg) }
func (l *StdLogger) Error(msg string, args ...interface{}) { l.entry(args).Error(msg) }
