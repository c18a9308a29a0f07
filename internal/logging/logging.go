// Package logging constructs the process-wide loggers: one *logrus.Logger
// per long-running component (tangle, gossip, miner, discovery), each
// writing terminal output through a prefixed formatter and file output
// through a level-routed hook, following babble's per-component logrus
// fields convention.
package logging

import (
	"os"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// New builds a logger tagged with component, writing DEBUG+ both to
// stderr via the prefixed formatter and to path in plain text via lfshook.
// The returned Entry carries the component field on every line logged
// through it.
func New(component string, path string) *logrus.Entry {
	log := logrus.New()
	log.SetFormatter(&prefixed.TextFormatter{
		DisableColors:   false,
		TimestampFormat: "15:04:05",
		ForceFormatting: true,
	})
	log.SetLevel(logrus.DebugLevel)

	if path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			log.AddHook(lfshook.NewHook(
				lfshook.WriterMap{
					logrus.DebugLevel: file,
					logrus.InfoLevel:  file,
					logrus.WarnLevel:  file,
					logrus.ErrorLevel: file,
					logrus.FatalLevel: file,
				},
				&logrus.TextFormatter{DisableColors: true, FullTimestamp: true},
			))
		} else {
			log.Warnf("could not open log file %s: %s", path, err)
		}
	}

	return log.WithField("component", component)
}
