package events_test

import (
	"errors"
	"testing"

	"ouidb/core/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level events.Level
		want  string
	}{
		{events.Debug, "debug"},
		{events.Info, "info"},
		{events.Warn, "warn"},
		{events.Error, "error"},
		{events.Fatal, "fatal"},
		{events.Level(42), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}

func TestZapSink_Emit(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	sink := events.NewZapSink(zap.New(core))

	sink.Emit(events.Warn, 2005, "download failed", errors.New("timeout"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	assert.Equal(t, "download failed", entry.Message)
	assert.Equal(t, int64(2005), entry.ContextMap()["code"])
	assert.Equal(t, "timeout", entry.ContextMap()["error"])
}

func TestZapSink_FatalNeverKillsProcess(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	sink := events.NewZapSink(zap.New(core))

	sink.Emit(events.Fatal, 2006, "parse failed", nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zap.ErrorLevel, logs.All()[0].Level)
}

func TestNop(t *testing.T) {
	// Just must not panic.
	events.Nop{}.Emit(events.Error, 1, "ignored", nil)
}
