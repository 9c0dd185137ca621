// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ConsolePath disables the log file
const ConsolePath = "console"

const (
	maxSizeMB  = 5
	maxBackups = 3
	maxAgeDays = 30
)

// Init parses level and sends log output to stderr and, unless path is
// empty or "console", to a rotated file at path.
func Init(level string, path string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Errorf("Failed parsing log-level %s: %s", level, err)
		return err
	}

	var out io.Writer = os.Stderr
	if path != "" && path != ConsolePath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   filepath.ToSlash(path),
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		})
	}

	log.SetOutput(out)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetLevel(lvl)
	return nil
}
