package logger

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const alertKey = "send_alert"

// Alerter delivers an operator alert. The message is HTML.
type Alerter interface {
	Notify(ctx context.Context, message string) error
}

// AlertField marks an entry for delivery to the configured Alerter.
func AlertField() zap.Field {
	return zap.Bool(alertKey, true)
}

// AlertCore tees entries at or above minLevel that carry AlertField to an
// Alerter, without blocking the caller.
type AlertCore struct {
	core     zapcore.Core
	fields   []zapcore.Field
	alerter  Alerter
	minLevel zapcore.Level
	timeout  time.Duration
}

// WithAlerts returns a child logger whose flagged entries also go to alerter.
func (l *Logger) WithAlerts(alerter Alerter, minLevel zapcore.Level) *Logger {
	if alerter == nil {
		return l
	}
	return &Logger{l.Logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &AlertCore{core: core, alerter: alerter, minLevel: minLevel, timeout: 10 * time.Second}
	}))}
}

func (a *AlertCore) Enabled(lvl zapcore.Level) bool {
	return a.core.Enabled(lvl)
}

func (a *AlertCore) With(fields []zapcore.Field) zapcore.Core {
	return &AlertCore{
		core:     a.core.With(fields),
		fields:   append(a.fields[:len(a.fields):len(a.fields)], fields...),
		alerter:  a.alerter,
		minLevel: a.minLevel,
		timeout:  a.timeout,
	}
}

func (a *AlertCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if a.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, a)
	}
	return checkedEntry
}

func (a *AlertCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := append(a.fields[:len(a.fields):len(a.fields)], fields...)
	if entry.Level >= a.minLevel && hasAlertFlag(all) {
		message := formatAlert(entry, all)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
			defer cancel()
			_ = a.alerter.Notify(ctx, message)
		}()
	}
	return a.core.Write(entry, fields)
}

func (a *AlertCore) Sync() error {
	return a.core.Sync()
}

func hasAlertFlag(fields []zapcore.Field) bool {
	for _, f := range fields {
		if f.Key == alertKey && f.Type == zapcore.BoolType && f.Integer == 1 {
			return true
		}
	}
	return false
}

func formatAlert(entry zapcore.Entry, fields []zapcore.Field) string {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		if f.Key == alertKey {
			continue
		}
		f.AddTo(enc)
	}

	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	fmt.Fprintf(&sb, "🚨 <b>%s Alert</b>\n\n<b>Message:</b> %s\n", entry.Level.CapitalString(), html.EscapeString(entry.Message))
	if len(keys) > 0 {
		sb.WriteString("\n<b>Fields:</b>\n")
		for _, k := range keys {
			fmt.Fprintf(&sb, "• %s: %s\n", html.EscapeString(k), html.EscapeString(fmt.Sprint(enc.Fields[k])))
		}
	}
	fmt.Fprintf(&sb, "\n<b>Time:</b> %s", entry.Time.UTC().Format("2006-01-02 15:04:05"))
	return sb.String()
}
