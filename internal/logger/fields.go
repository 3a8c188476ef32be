package logger

import (
	"time"

	"go.uber.org/zap"
)

// String creates a field with a string value.
// Example: logger.Info("article published", String("slug", "my-story"))
func String(key, val string) Field {
	return zap.String(key, val)
}

// Int creates a field with an int value.
// Example: logger.Info("feed served", Int("count", 42))
func Int(key string, val int) Field {
	return zap.Int(key, val)
}

// Int64 creates a field with an int64 value.
func Int64(key string, val int64) Field {
	return zap.Int64(key, val)
}

// Bool creates a field with a boolean value.
// Example: logger.Info("publish handled", Bool("created", true))
func Bool(key string, val bool) Field {
	return zap.Bool(key, val)
}

// Duration creates a field with a time.Duration value.
// Example: logger.Info("request completed", Duration("elapsed", time.Second))
func Duration(key string, val time.Duration) Field {
	return zap.Duration(key, val)
}

// Time creates a field with a time.Time value.
func Time(key string, val time.Time) Field {
	return zap.Time(key, val)
}

// Error creates a field for an error value.
// The error is logged with the key "error" and includes the error message.
// Example: logger.Error("publish failed", Error(err))
func Error(err error) Field {
	return zap.Error(err)
}

// Strings creates a field with a slice of strings.
// Example: logger.Info("tags normalized", Strings("tags", []string{"ai", "policy"}))
func Strings(key string, val []string) Field {
	return zap.Strings(key, val)
}

// Any creates a field with an arbitrary value.
// The value is serialized using reflection; prefer typed constructors when possible.
func Any(key string, val any) Field {
	return zap.Any(key, val)
}
