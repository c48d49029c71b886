package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "cli")

var exit = os.Exit

type logger bool

// Logf logs progress messages when running verbosely.
func (l logger) Logf(format string, a ...interface{}) {
	if !l {
		return
	}
	log.Infof(format, a...)
}

// fail logs err and exits with the given code.
func fail(code int, err error) {
	log.WithError(err).Error("command failed")
	exit(code)
}
