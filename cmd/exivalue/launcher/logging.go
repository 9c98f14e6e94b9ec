package launcher

import (
	"io"

	"github.com/evalphobia/logrus_sentry"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// sentryLevels are forwarded to Sentry when a DSN is configured.
var sentryLevels = []logrus.Level{
	logrus.PanicLevel,
	logrus.FatalLevel,
	logrus.ErrorLevel,
}

// setupLogging builds the command logger from cfg. Log output goes to w so
// that stdout carries only command results.
func setupLogging(cfg LoggingConfig, w io.Writer) (*logrus.Entry, error) {
	if cfg.Verbosity < int(logrus.PanicLevel) || cfg.Verbosity > int(logrus.TraceLevel) {
		return nil, errors.Errorf("--log.verbosity out of range: %d", cfg.Verbosity)
	}

	logger := logrus.New()
	logger.Out = w
	logger.SetLevel(logrus.Level(cfg.Verbosity))
	switch cfg.Format {
	case "text":
		logger.Formatter = &logrus.TextFormatter{
			ForceColors:   cfg.Color,
			DisableColors: !cfg.Color,
		}
	case "json":
		logger.Formatter = &logrus.JSONFormatter{}
	default:
		return nil, errors.Errorf("--log.format must be text or json, got %q", cfg.Format)
	}

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, sentryLevels)
		if err != nil {
			return nil, errors.Wrap(err, "sentry hook")
		}
		logger.AddHook(hook)
	}
	return logrus.NewEntry(logger).WithField("app", "exivalue"), nil
}
