// Package wblog provides the service's structured logging, adapted from the
// teacher's custom logrus formatter (log.go): dropped terminal/ANSI/
// word-wrap concerns (no TTY in an HTTP service), kept the
// "fields -> aligned line" shape.
package wblog

import (
	"bytes"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
)

// New returns a logger configured with the service's text formatter.
func New() *log.Logger {
	logger := log.New()
	logger.SetFormatter(&textFormatter{})
	return logger
}

type textFormatter struct{}

// Format renders one log line as "TIMESTAMP LEVEL message key=value ...",
// fields sorted for stable output, matching the teacher's customFormatter
// field-rendering approach minus the terminal color/width handling.
func (f *textFormatter) Format(entry *log.Entry) ([]byte, error) {
	b := &bytes.Buffer{}
	fmt.Fprintf(b, "%s %-7s %s", entry.Time.Format("2006-01-02T15:04:05.000Z07:00"), levelText(entry.Level), entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func levelText(lvl log.Level) string {
	switch lvl {
	case log.PanicLevel, log.FatalLevel, log.ErrorLevel:
		return "ERROR"
	case log.WarnLevel:
		return "WARN"
	case log.InfoLevel:
		return "INFO"
	default:
		return "DEBUG"
	}
}
