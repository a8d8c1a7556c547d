package logging

import (
	"io"
	"log"
	"os"
	"strings"
)

type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func ParseLevel(levelStr string) Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	default:
		return WarnLevel
	}
}

type Logger struct {
	debugLogger *log.Logger
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	level       Level
}

func New() *Logger {
	return NewWithLevel(WarnLevel)
}

func NewWithLevel(level Level) *Logger {
	return NewWithWriters(os.Stdout, os.Stderr, level)
}

// NewWithWriters routes error messages to errOut and everything else to out.
func NewWithWriters(out, errOut io.Writer, level Level) *Logger {
	return &Logger{
		debugLogger: log.New(out, "[DEBUG] ", log.LstdFlags),
		infoLogger:  log.New(out, "[INFO] ", log.LstdFlags),
		warnLogger:  log.New(out, "[WARN] ", log.LstdFlags),
		errorLogger: log.New(errOut, "[ERROR] ", log.LstdFlags),
		level:       level,
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level <= DebugLevel {
		l.debugLogger.Printf(format, args...)
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.level <= InfoLevel {
		l.infoLogger.Printf(format, args...)
	}
}

func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level <= WarnLevel {
		l.warnLogger.Printf(format, args...)
	}
}

func (l *Logger) Error(format string, args ...interface{}) {
	if l.level <= ErrorLevel {
		l.errorLogger.Printf(format, args...)
	}
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.errorLogger.Printf(format, args...)
	os.Exit(1)
}

func (l *Logger) FatalErr(err error, message string) {
	if err != nil {
		l.errorLogger.Printf("%s: %v", message, err)
		os.Exit(1)
	}
}

var DefaultLogger = New()

func Debug(format string, args ...interface{}) {
	DefaultLogger.Debug(format, args...)
}

func Info(format string, args ...interface{}) {
	DefaultLogger.Info(format, args...)
}

func Warn(format string, args ...interface{}) {
	DefaultLogger.Warn(format, args...)
}

func Error(format string, args ...interface{}) {
	DefaultLogger.Error(format, args...)
}

func Fatal(format string, args ...interface{}) {
	DefaultLogger.Fatal(format, args...)
}

func FatalErr(err error, message string) {
	DefaultLogger.FatalErr(err, message)
}
