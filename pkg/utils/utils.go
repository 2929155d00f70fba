package utils

import (
	"bytes"
	"unicode/utf8"

	"tradein-estimator/pkg/logger"
)

// CleanToValidUTF8 drops invalid bytes from user supplied text.
func CleanToValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var buf bytes.Buffer
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		buf.WriteRune(r)
		i += size
	}
	return buf.String()
}

// GoSafe runs fn in a new goroutine and logs any panic instead of crashing.
func GoSafe(log *logger.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Panic recovered in background task", logger.Field("panic", r))
			}
		}()
		fn()
	}()
}
