package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/plotspec/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("plotspec", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
plotspec - parse declarative plot option and compositor specifications.

Usage:
  plotspec [options] [SPEC_LINE]

Arguments:
  SPEC_LINE
    The specification line to parse, e.g. "Curve (color='r') [show_grid=True]".

Options:
`)
		flagSet.PrintDefaults()
	}

	lineFlag := flagSet.String("line", "", "The specification line to parse.")
	lFlag := flagSet.String("l", "", "The specification line to parse (shorthand).")
	typeFlag := flagSet.String("type", app.SpecTypeOpts, "Specification type. Options: 'opts' or 'compositor'.")
	strictFlag := flagSet.Bool("strict", false, "Abort on keyword evaluation failures instead of skipping them.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	line := ""
	if *lineFlag != "" {
		line = *lineFlag
	} else if *lFlag != "" {
		line = *lFlag
	} else if flagSet.NArg() > 0 {
		line = strings.Join(flagSet.Args(), " ")
	}

	if line == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		Line:      line,
		SpecType:  strings.ToLower(*typeFlag),
		Strict:    *strictFlag,
		LogFormat: logFormat,
		LogLevel:  logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
