package logger

import (
	"os"

	"github.com/sirupsen/logrus"
	"go.elastic.co/ecslogrus"
)

// ExtraFieldHook stamps the service name onto every log entry
type ExtraFieldHook struct {
	service string
}

func newHook(service string) *ExtraFieldHook {
	return &ExtraFieldHook{service: service}
}

// Levels returns all log levels so the hook fires on every entry
func (h *ExtraFieldHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire adds the service name to the log entry
func (h *ExtraFieldHook) Fire(entry *logrus.Entry) error {
	entry.Data["service.name"] = h.service
	return nil
}

// CreateLogger creates an ECS-formatted logger for the named service. The log
// level comes from the LOG_LEVEL environment variable, defaulting to info.
func CreateLogger(service string) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&ecslogrus.Formatter{})
	l.AddHook(newHook(service))

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	return l
}
