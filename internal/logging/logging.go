// Package logging builds the application's logrus logger.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// FileName is the log file written inside the log directory.
const FileName = "mudra.log"

// DefaultTimestampFormat includes microseconds.
const DefaultTimestampFormat = "2006/01/02 15:04:05.000000"

// New creates a logger at the given level writing to stdout and, when dir is
// not empty, to dir/mudra.log as well. An unparsable level falls back to info.
// The returned Closer releases the log file and points the logger back at
// stdout.
func New(level, dir string) (*logrus.Logger, io.Closer, error) {
	l := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	l.SetFormatter(&SimpleFormatter{TimestampFormat: DefaultTimestampFormat})
	l.SetOutput(os.Stdout)

	if dir == "" {
		return l, closerFunc(func() error { return nil }), nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory '%s': %w", dir, err)
	}
	path := filepath.Join(dir, FileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file '%s': %w", path, err)
	}
	l.SetOutput(io.MultiWriter(os.Stdout, file))

	return l, closerFunc(func() error {
		l.SetOutput(os.Stdout)
		return file.Close()
	}), nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// SimpleFormatter writes one compact line per entry:
//
//	2026/04/06 17:30:00.000000 [INF] Action fired action=left_click gesture=peace
type SimpleFormatter struct {
	TimestampFormat string
}

// Format implements logrus.Formatter.
func (f *SimpleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	timestampFormat := f.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = DefaultTimestampFormat
	}

	b.WriteString(entry.Time.Format(timestampFormat))
	b.WriteString(" ")

	level := strings.ToUpper(entry.Level.String())
	if len(level) > 3 {
		level = level[:3]
	}
	fmt.Fprintf(b, "[%s] ", level)

	b.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
		}
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}
