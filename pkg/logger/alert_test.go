package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type chanAlerter chan string

func (c chanAlerter) Notify(_ context.Context, message string) error {
	c <- message
	return nil
}

func TestLogger_WithAlerts(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	alerts := make(chanAlerter, 4)
	log := (&Logger{zap.New(core)}).WithAlerts(alerts, zapcore.ErrorLevel)

	log.Warn("warn with flag", AlertField())
	log.Error("plain error")
	log.With(StringField("file", "trade-in-data.csv")).Error("source <failed>", ErrorField(errors.New("boom")), AlertField())

	select {
	case msg := <-alerts:
		assert.Contains(t, msg, "<b>ERROR Alert</b>")
		assert.Contains(t, msg, "source &lt;failed&gt;")
		assert.Contains(t, msg, "• error: boom")
		assert.Contains(t, msg, "• file: trade-in-data.csv")
		assert.NotContains(t, msg, alertKey)
	case <-time.After(time.Second):
		t.Fatal("alert not delivered")
	}

	select {
	case msg := <-alerts:
		t.Fatalf("unexpected alert: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}

	require.Equal(t, 3, logs.Len())
}

func TestLogger_WithAlerts_NilAlerter(t *testing.T) {
	log := NewNop()
	assert.Same(t, log, log.WithAlerts(nil, zapcore.ErrorLevel))
}
