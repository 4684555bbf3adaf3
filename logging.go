package main

import (
	"fmt"
	"io/ioutil"

	"github.com/sirupsen/logrus"
)

// lineFormatter renders log lines as `[YYYY-MM-DD HH:MM:SS] LEVEL
// per-connection-prefix -- message`, which logrus's own TextFormatter
// cannot produce.
type lineFormatter struct{}

func (lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	prefix := ""
	if v, ok := entry.Data["conn"]; ok {
		prefix = fmt.Sprintf("%v", v)
	}

	line := fmt.Sprintf("[%s] %s %s -- %s\n",
		entry.Time.Format("2006-01-02 15:04:05"),
		levelName(entry.Level),
		prefix,
		entry.Message,
	)
	return []byte(line), nil
}

// levelName maps logrus's levels onto the CRITICAL/ERROR/WARN/INFO/DEBUG/
// TRACE vocabulary; logrus has no CRITICAL level of its own, so Panic and
// Fatal both render as CRITICAL.
func levelName(l logrus.Level) string {
	switch l {
	case logrus.PanicLevel, logrus.FatalLevel:
		return "CRITICAL"
	case logrus.ErrorLevel:
		return "ERROR"
	case logrus.WarnLevel:
		return "WARN"
	case logrus.InfoLevel:
		return "INFO"
	case logrus.DebugLevel:
		return "DEBUG"
	case logrus.TraceLevel:
		return "TRACE"
	default:
		return "INFO"
	}
}

// newLogger builds the logger for this process's verbosity flags: default
// INFO, -v DEBUG, -vv TRACE, -q discards everything.
func newLogger(args *Args) *logrus.Logger {
	log := logrus.New()
	log.Formatter = lineFormatter{}

	switch {
	case args.Quiet:
		log.SetOutput(ioutil.Discard)
	case args.Verbosity >= 2:
		log.SetLevel(logrus.TraceLevel)
	case args.Verbosity == 1:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}
