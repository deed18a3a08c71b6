package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Level           string
	LogstashTCPAddr string
}

// New returns a JSON logrus logger writing to stdout and, when configured, to
// Logstash. The returned closer releases the Logstash connection.
func New(cfg Config) (*logrus.Logger, io.Closer) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.TrimSpace(cfg.LogstashTCPAddr) == "" {
		return logger, nopCloser{}
	}
	writer, err := NewLogstashWriter(cfg.LogstashTCPAddr)
	if err != nil {
		logger.WithError(err).Warn("logstash output disabled")
		return logger, nopCloser{}
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, writer))
	logger.WithField("addr", cfg.LogstashTCPAddr).Info("mirroring logs to logstash")
	return logger, writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
