package main

import (
	"io"

	logging "github.com/op/go-logging"
	"github.com/pkg/errors"
)

const (
	logFormat      = "%{time:2006-01-02 15:04:05.000} [%{level:.4s}] %{module} %{message}"
	logColorFormat = "%{color}%{time:2006-01-02 15:04:05.000} [%{level:.4s}]%{color:reset} %{module} %{message}"
)

var log = logging.MustGetLogger("bspregion")

// initLogging routes every module logger to w at the given level.
func initLogging(w io.Writer, levelString string, color bool) error {
	level, err := logging.LogLevel(levelString)
	if err != nil {
		return errors.Wrapf(err, "log level %q", levelString)
	}

	format := logFormat
	if color {
		format = logColorFormat
	}
	backend := logging.AddModuleLevel(
		logging.NewBackendFormatter(
			logging.NewLogBackend(w, "", 0),
			logging.MustStringFormatter(format),
		),
	)
	backend.SetLevel(level, "")
	logging.SetBackend(backend)
	return nil
}
