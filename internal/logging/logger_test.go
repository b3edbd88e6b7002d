package logging

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestGetLevel(t *testing.T) {
	for level, want := range map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"ERROR":   logrus.ErrorLevel,
		"fatal":   logrus.FatalLevel,
		"info":    logrus.InfoLevel,
		"trace":   logrus.TraceLevel,
		"warn":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"":        logrus.TraceLevel,
		"bogus":   logrus.TraceLevel,
	} {
		assert.Equal(t, want, GetLevel(level), level)
	}
}

func TestSentryHook_Levels(t *testing.T) {
	hook := NewSentryHook([]logrus.Level{logrus.ErrorLevel, logrus.FatalLevel})
	assert.Equal(t, []logrus.Level{logrus.ErrorLevel, logrus.FatalLevel}, hook.Levels())
	// sentry is not initialised here, firing must still be harmless
	assert.NoError(t, hook.Fire(logrus.NewEntry(logrus.StandardLogger())))
}

func TestSentryLevel(t *testing.T) {
	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.PanicLevel))
	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.FatalLevel))
	assert.Equal(t, sentry.LevelError, sentryLevel(logrus.ErrorLevel))
	assert.Equal(t, sentry.LevelWarning, sentryLevel(logrus.WarnLevel))
	assert.Equal(t, sentry.LevelInfo, sentryLevel(logrus.InfoLevel))
	assert.Equal(t, sentry.LevelDebug, sentryLevel(logrus.TraceLevel))
}
