package config

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const defaultLogFile = "logs/law-office-api.log"

// LogWriter is the writer used for application and database logs.
var LogWriter io.Writer = os.Stdout

// LogFilePath returns the backend log file. LOG_FILE overrides the default;
// "stdout" or "-" turns file logging off and yields "".
func LogFilePath() string {
	path := strings.TrimSpace(os.Getenv("LOG_FILE"))
	switch strings.ToLower(path) {
	case "":
		return filepath.FromSlash(defaultLogFile)
	case "-", "stdout":
		return ""
	}
	return filepath.Clean(path)
}

// InitLogging opens the log file, if any, and points the standard logger at
// stdout plus that file.
func InitLogging() (*os.File, io.Writer) {
	path := LogFilePath()
	if path == "" {
		LogWriter = os.Stdout
		log.SetOutput(LogWriter)
		return nil, LogWriter
	}

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create logs directory: %v", err)
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Warning: Failed to open log file %s: %v", path, err)
		LogWriter = os.Stdout
		log.SetOutput(LogWriter)
		return nil, LogWriter
	}

	LogWriter = io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(LogWriter)
	return logFile, LogWriter
}
