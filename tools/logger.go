package tools

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

func InitLogger() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   false,
		PadLevelText:    true,
	})

	level := logrus.InfoLevel
	if parsed, err := logrus.ParseLevel(strings.TrimSpace(os.Getenv("LOG_LEVEL"))); err == nil {
		level = parsed
	}
	Log.SetLevel(level)
}

// SyncMetrics is the combined outcome of one group's AD + Google pass.
type SyncMetrics struct {
	GroupEmail    string
	TotalUsers    int
	ADAdded       int
	ADRemoved     int
	GoogleAdded   int
	GoogleRemoved int
}

func LogSyncCombined(m SyncMetrics) {
	Log.WithFields(logrus.Fields{
		"group":          m.GroupEmail,
		"users":          m.TotalUsers,
		"ad_added":       m.ADAdded,
		"ad_removed":     m.ADRemoved,
		"google_added":   m.GoogleAdded,
		"google_removed": m.GoogleRemoved,
	}).Info("Sync complete")
}
