package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Init installs the default logger. Verbose mode logs every translated
// command; otherwise only warnings and errors are shown.
func Init(verbose, noColor bool) {
	InitWriter(os.Stderr, verbose, noColor)
}

// InitWriter is Init with an explicit destination
func InitWriter(w io.Writer, verbose, noColor bool) {
	log.SetDefault(log.NewWithOptions(w,
		log.Options{
			ReportCaller:    verbose,
			ReportTimestamp: false,
			TimeFormat:      time.RFC3339,
			Prefix:          "VMT",
		}))

	log.SetLevel(log.WarnLevel)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	log.SetColorProfile(termenv.ANSI256)
	if noColor {
		log.SetColorProfile(termenv.Ascii)
	}
}
