package logging

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// TimestampFormat is the timestamp layout used in log lines
const TimestampFormat = "2006-01-02 15:04:05 MST"

// LineFormatter renders entries as "[LEVEL:timestamp] message key=value ..."
type LineFormatter struct{}

// Format implements logrus.Formatter
func (LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s:%s] %s", strings.ToUpper(entry.Level.String()), entry.Time.Format(TimestampFormat), entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// New opens (or creates) the log file in append mode and returns a logger
// writing to it. The caller closes the returned file.
func New(path, level string) (*logrus.Logger, *os.File, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log := logrus.New()
	log.SetOutput(f)
	log.SetLevel(lvl)
	log.SetFormatter(LineFormatter{})

	return log, f, nil
}
