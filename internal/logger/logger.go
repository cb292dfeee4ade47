package logger

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
)

// Log levels
const (
	LevelError = iota
	LevelWarning
	LevelInfo
	LevelDebug
)

var (
	// Different log levels with colors
	Info    *log.Logger
	Debug   *log.Logger
	Warning *log.Logger
	Error   *log.Logger

	// Control overall logging level
	LogLevel = LevelWarning

	// Control color output
	useColors = true

	// Current handles, kept so color changes do not reset a redirected output
	handles [4]io.Writer
)

// prefix renders a level prefix, colored when colors are enabled
func prefix(label string, attr color.Attribute) string {
	if !useColors {
		return label + ": "
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(label+":") + " "
}

// Initialize sets up the loggers with the specified output
func Initialize(infoHandle, debugHandle, warningHandle, errorHandle io.Writer) {
	// Diagnostics go to stderr by default so they never mix with the
	// interactive output on stdout
	if infoHandle == nil {
		infoHandle = os.Stderr
	}
	if debugHandle == nil {
		debugHandle = os.Stderr
	}
	if warningHandle == nil {
		warningHandle = os.Stderr
	}
	if errorHandle == nil {
		errorHandle = os.Stderr
	}
	handles = [4]io.Writer{infoHandle, debugHandle, warningHandle, errorHandle}

	flags := log.Ldate | log.Ltime | log.Lshortfile
	Info = log.New(infoHandle, prefix("INFO", color.FgBlue), flags)
	Debug = log.New(debugHandle, prefix("DEBUG", color.FgMagenta), flags)
	Warning = log.New(warningHandle, prefix("WARNING", color.FgYellow), flags)
	Error = log.New(errorHandle, prefix("ERROR", color.FgRed), flags)
}

// EnableColors enables colored output
func EnableColors() {
	useColors = true
	Initialize(handles[0], handles[1], handles[2], handles[3])
}

// DisableColors disables colored output
func DisableColors() {
	useColors = false
	Initialize(handles[0], handles[1], handles[2], handles[3])
}

// SetLevel sets the logging level
func SetLevel(level int) {
	if level >= LevelError && level <= LevelDebug {
		LogLevel = level
	}
}

// Helper functions with level checking
func Infof(format string, v ...interface{}) {
	if LogLevel >= LevelInfo {
		Info.Output(2, fmt.Sprintf(format, v...))
	}
}

func Debugf(format string, v ...interface{}) {
	if LogLevel >= LevelDebug {
		Debug.Output(2, fmt.Sprintf(format, v...))
	}
}

func Warningf(format string, v ...interface{}) {
	if LogLevel >= LevelWarning {
		Warning.Output(2, fmt.Sprintf(format, v...))
	}
}

func Errorf(format string, v ...interface{}) {
	if LogLevel >= LevelError {
		Error.Output(2, fmt.Sprintf(format, v...))
	}
}

// Init is called automatically to initialize the logger with defaults
func init() {
	Initialize(nil, nil, nil, nil)
}
