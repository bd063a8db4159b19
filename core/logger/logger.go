package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	log  *slog.Logger
	once sync.Once
)

// Init configures the package logger. The level string accepts
// "debug", "info", "warn", "error" (case-insensitive); anything else
// falls back to info. Safe to call more than once; only the first wins.
func Init(level string) {
	once.Do(func() {
		var lvl slog.Level
		switch strings.ToLower(strings.TrimSpace(level)) {
		case "debug":
			lvl = slog.LevelDebug
		case "warn":
			lvl = slog.LevelWarn
		case "error":
			lvl = slog.LevelError
		default:
			lvl = slog.LevelInfo
		}

		handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
		log = slog.New(handler)
		slog.SetDefault(log)
	})
}

func get() *slog.Logger {
	if log == nil {
		Init("info")
	}
	return log
}

func Debug(msg string, args ...any) {
	get().Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	get().Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	get().Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	get().Error(msg, normalize(args)...)
}

// normalize tolerates the shorthand logger.Error("Tag", err, kv...) used
// across repositories by promoting a leading error into an "error" attribute.
func normalize(args []any) []any {
	if len(args) > 0 {
		if err, ok := args[0].(error); ok {
			out := make([]any, 0, len(args)+1)
			out = append(out, "error", err)
			return append(out, args[1:]...)
		}
	}
	return args
}
