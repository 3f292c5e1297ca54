// pkg/logger/formatter.go

package logger

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ConsoleFormatter renders colored single-line entries for interactive use.
type ConsoleFormatter struct {
	TimestampFormat string
}

const (
	red    = 31
	green  = 32
	yellow = 33
	blue   = 36
	gray   = 37
)

func levelColor(level logrus.Level) int {
	switch level {
	case logrus.ErrorLevel, logrus.FatalLevel:
		return red
	case logrus.WarnLevel:
		return yellow
	case logrus.DebugLevel:
		return gray
	default:
		return blue
	}
}

func colorize(color int, msg string) string {
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", color, msg)
}

func (f *ConsoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var buf *bytes.Buffer
	if entry.Buffer != nil {
		buf = entry.Buffer
	} else {
		buf = &bytes.Buffer{}
	}

	format := f.TimestampFormat
	if format == "" {
		format = time.RFC3339
	}
	timestamp := entry.Time.Format(format)

	level := strings.ToUpper(entry.Level.String())
	coloredLevel := colorize(levelColor(entry.Level), fmt.Sprintf("%-7s", level))

	fields := make([]string, 0, len(entry.Data)+2)

	// Request status gets its own color so failures stand out in a stream.
	if status, ok := entry.Data["status"].(int); ok {
		color := green
		if status >= 500 {
			color = red
		} else if status >= 400 {
			color = yellow
		}
		fields = append(fields, colorize(color, fmt.Sprintf("status=%d", status)))
	}

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != "status" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s=%v", k, entry.Data[k]))
	}

	if entry.HasCaller() {
		fields = append(fields, colorize(gray,
			fmt.Sprintf("file=%s:%d", entry.Caller.File, entry.Caller.Line)))
	}

	if len(fields) > 0 {
		fmt.Fprintf(buf, "%s %s %s | %s\n",
			colorize(gray, timestamp), coloredLevel, entry.Message,
			strings.Join(fields, " "))
	} else {
		fmt.Fprintf(buf, "%s %s %s\n",
			colorize(gray, timestamp), coloredLevel, entry.Message)
	}

	return buf.Bytes(), nil
}
