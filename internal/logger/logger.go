package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/powerplanctl/internal/errors"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var log = zerolog.New(io.Discard)

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// ParseLevel maps a configured level name to a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(name) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, errors.New().WithData(errors.ErrInvalidLogLevel, name)
	}
}

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

// Options controls where log records go.
type Options struct {
	Level     LogLevel
	IsService bool
	// Console receives human readable output. Defaults to os.Stdout.
	Console io.Writer
	// File, when set, receives every record as "[ISO8601] [LEVEL] message".
	File io.Writer
}

// Init initializes the logger based on the given configuration
func Init(opts Options) {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	output := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(console),
	}

	if opts.IsService {
		output.TimeFormat = ""
		output.FormatTimestamp = func(_ interface{}) string {
			return ""
		}
	}

	var w io.Writer = output
	if opts.File != nil {
		w = zerolog.MultiLevelWriter(output, FileWriter(opts.File))
	}

	log = zerolog.New(w).With().Timestamp().Logger()

	SetLogLevel(opts.Level)
}

// FileWriter formats records as plain "[ISO8601] [LEVEL] message" lines for
// the append-only application log file.
func FileWriter(out io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: time.RFC3339,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.MessageFieldName,
		},
		FormatTimestamp: func(i interface{}) string {
			return fmt.Sprintf("[%v]", i)
		},
		FormatLevel: func(i interface{}) string {
			level, _ := i.(string)
			return "[" + strings.ToUpper(level) + "]"
		},
	}
}

// OpenFile opens path for appending, creating it when missing.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrOpenLogFile, err)
	}

	return f, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

// Debug logs a debug message
func Debug() *LogEvent {
	return &LogEvent{log.Debug()}
}

// Info logs an info message
func Info() *LogEvent {
	return &LogEvent{log.Info()}
}

// Warn logs a warning message
func Warn() *LogEvent {
	return &LogEvent{log.Warn()}
}

// Error logs an error message
func Error() *LogEvent {
	return &LogEvent{log.Error()}
}

// ErrorWithCode logs an error message with a specific error code
func ErrorWithCode(err errors.Error) *LogEvent {
	return &LogEvent{log.Error().
		Str("error_code", string(err.Code())).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())}
}

// Fatal logs a fatal message and exits the program
func Fatal() *LogEvent {
	return &LogEvent{log.Fatal()}
}

// FatalWithCode logs a fatal message with a specific error code and exits the program
func FatalWithCode(err errors.Error) *LogEvent {
	return &LogEvent{log.Fatal().
		Str("error_code", string(err.Code())).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())}
}

type componentLogger struct {
	component string
}

// Default returns a Logger backed by the global logger.
func Default() Logger {
	return componentLogger{}
}

// New returns a Logger that tags every record with the component name.
func New(component string) Logger {
	return componentLogger{component: component}
}

func (c componentLogger) tag(e *zerolog.Event) *LogEvent {
	if c.component != "" {
		e = e.Str("component", c.component)
	}

	return &LogEvent{e}
}

func (c componentLogger) Debug() *LogEvent { return c.tag(log.Debug()) }
func (c componentLogger) Info() *LogEvent  { return c.tag(log.Info()) }
func (c componentLogger) Warn() *LogEvent  { return c.tag(log.Warn()) }
func (c componentLogger) Error() *LogEvent { return c.tag(log.Error()) }

func (c componentLogger) ErrorWithCode(err errors.Error) *LogEvent {
	ev := c.tag(log.Error())
	ev.Str("error_code", string(err.Code())).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())

	return ev
}

func (componentLogger) With(component string) Logger {
	return componentLogger{component: component}
}
