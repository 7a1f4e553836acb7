package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestInitTagsService(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	Init("cardiocare-service")

	var buf bytes.Buffer
	Log.SetOutput(&buf)

	WithField("record_id", "abc").Info("record added")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "cardiocare-service", entry["service"])
	require.Equal(t, "abc", entry["record_id"])
	require.Equal(t, logrus.DebugLevel, Log.GetLevel())
}

func TestInitFallsBackToInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")
	Init("")
	require.Equal(t, logrus.InfoLevel, Log.GetLevel())
}
