package config

import (
	"log/slog"

	"git.home.luguber.info/inful/beandoc/internal/foundation/normalization"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

func NormalizeLogLevel(raw string) LogLevel {
	return logLevelNormalizer.Normalize(raw)
}

// SlogLevel maps the level onto log/slog.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

func NormalizeLogFormat(raw string) LogFormat {
	return logFormatNormalizer.Normalize(raw)
}

// OutputFormat selects the document markup.
type OutputFormat string

const (
	FormatAsciiDoc OutputFormat = "asciidoc"
	FormatMarkdown OutputFormat = "markdown"
)

var formatNormalizer = normalization.NewNormalizer(map[string]OutputFormat{
	"asciidoc": FormatAsciiDoc,
	"adoc":     FormatAsciiDoc,
	"markdown": FormatMarkdown,
	"md":       FormatMarkdown,
}, FormatAsciiDoc)

// ParseOutputFormat accepts the same spellings as output.format.
func ParseOutputFormat(raw string) (OutputFormat, error) {
	return formatNormalizer.NormalizeWithError(raw)
}
