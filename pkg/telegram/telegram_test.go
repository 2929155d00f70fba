package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	"tradein-estimator/config"
	"tradein-estimator/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

type fakeSender struct {
	to   telebot.Recipient
	what interface{}
	opts []interface{}
	err  error
}

func (f *fakeSender) Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error) {
	f.to, f.what, f.opts = to, what, opts
	return &telebot.Message{}, f.err
}

func TestBotNotifier_Notify(t *testing.T) {
	sender := &fakeSender{}
	n := newBotNotifier(config.TelegramConfig{ChatID: -1001, MaxGlobalRequestPerSecond: 5}, logger.NewNop(), sender)

	require.NoError(t, n.Notify(context.Background(), "<b>hi</b>"))
	assert.Equal(t, "-1001", sender.to.Recipient())
	assert.Equal(t, "<b>hi</b>", sender.what)
	assert.Contains(t, sender.opts, telebot.ModeHTML)

	sender.err = errors.New("chat not found")
	assert.Error(t, n.Notify(context.Background(), "again"))
}

func TestNewNotifier_WithoutToken(t *testing.T) {
	n, err := NewNotifier(config.TelegramConfig{}, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LogNotifier{}, n)
	assert.NoError(t, n.Notify(context.Background(), "logged"))
}

func TestFormatAppraisalAlert(t *testing.T) {
	msg := FormatAppraisalAlert(AppraisalAlert{
		RequestedAt: time.Date(2026, 5, 4, 17, 7, 0, 0, time.UTC),
		FullName:    "Jamie <Doe>",
		Email:       "jamie@example.com",
		Phone:       "555-0100",
		PostalCode:  "K1A 0B1",
		Boat:        "2019 Lund 1650",
		Horsepower:  90,
		EngineHours: 150,
		Trailer:     true,
		Condition:   "Good / Turn-Key",
		Low:         12000,
		High:        14000,
		LeadQuality: "High",
	})

	assert.Contains(t, msg, "2026-05-04 17:07 UTC")
	assert.Contains(t, msg, "Jamie &lt;Doe&gt;")
	assert.Contains(t, msg, "<b>2019 Lund 1650</b>")
	assert.Contains(t, msg, "90HP, 150 hours, trailer: Yes")
	assert.Contains(t, msg, "$12000 - $14000 CAD")
	assert.Contains(t, msg, "Lead quality: <b>High</b>")

	noEstimate := FormatAppraisalAlert(AppraisalAlert{Boat: "x"})
	assert.Contains(t, noEstimate, "not available")
}
