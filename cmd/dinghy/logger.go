package main

import (
	"io"
	"time"

	"github.com/lthibault/log"
	"github.com/sirupsen/logrus"
)

func logger(loglvl, logfmt string, prettyprint bool, w io.Writer) log.Logger {
	return log.New(
		withLevel(loglvl, logfmt),
		withFormat(logfmt, prettyprint),
		log.WithWriter(w))
}

func withLevel(loglvl, logfmt string) log.Option {
	if logfmt == "none" {
		return log.WithLevel(log.FatalLevel)
	}

	switch loglvl {
	case "trace", "t":
		return log.WithLevel(log.TraceLevel)
	case "debug", "d":
		return log.WithLevel(log.DebugLevel)
	case "warn", "warning", "w":
		return log.WithLevel(log.WarnLevel)
	case "error", "err", "e":
		return log.WithLevel(log.ErrorLevel)
	case "fatal", "f":
		return log.WithLevel(log.FatalLevel)
	}
	return log.WithLevel(log.InfoLevel)
}

func withFormat(logfmt string, prettyprint bool) log.Option {
	var fmt logrus.Formatter

	switch logfmt {
	case "none":
	case "json":
		fmt = &logrus.JSONFormatter{
			PrettyPrint:     prettyprint,
			TimestampFormat: time.RFC3339Nano,
		}
	default:
		fmt = &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
		}
	}
	return log.WithFormatter(fmt)
}
