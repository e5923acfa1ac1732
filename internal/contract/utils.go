package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/devpulse/schema"
)

// Color variables for console output.
var (
	HighColor   = color.New(color.FgGreen, color.Bold) // highColor marks strong performance.
	MediumColor = color.New(color.FgYellow)            // mediumColor marks steady performance, not bold.
	LowColor    = color.New(color.FgRed)               // lowColor marks engineers who may need support.
)

// GetColorBand returns a colored performance band for console output (table).
// It uses schema.GetPerformanceBand to determine the string, and then applies
// the appropriate color.
func GetColorBand(score float64) string {
	text := schema.GetPerformanceBand(score)

	switch text {
	case schema.HighBand:
		return HighColor.Sprint(text)
	case schema.MediumBand:
		return MediumColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the
// provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for run and
// document storage.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".devpulse.db"
	}
	return filepath.Join(homeDir, ".devpulse.db")
}

// TruncateText truncates display text to a maximum width with ellipsis suffix.
// Requires maxWidth > 3 to ensure there's space for both at least one character
// of content and the "..." marker. Without this check, small maxWidth values
// could cause slice bounds errors in the truncation calculation.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
