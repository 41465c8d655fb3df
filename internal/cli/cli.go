package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/usecasegen/internal/app"
	"github.com/vk/usecasegen/internal/lifecycle"
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

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("usecasegen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
usecasegen - compiles a declarative vision-pipeline use case into a
deterministic, bridged and scheduled link topology.

Usage:
  usecasegen [options] [USECASE_PATH]

Arguments:
  USECASE_PATH
    Path to a single .hcl/.yaml file or a directory containing them.

Options:
`)
		flagSet.PrintDefaults()
	}

	usecaseFlag := flagSet.String("usecase", "", "Path to the use-case file or directory.")
	uFlag := flagSet.String("u", "", "Path to the use-case file or directory (shorthand).")
	kindsFlag := flagSet.String("kinds", "", "Path to extra kind manifests (file or directory).")
	outFlag := flagSet.String("out", ".", "Directory the generated files are written to.")
	scriptFlag := flagSet.Bool("script", true, "Write the lifecycle script (<usecase>.script.yaml).")
	dotFlag := flagSet.Bool("dot", false, "Write the Graphviz diagram (<usecase>.dot).")
	htmlFlag := flagSet.Bool("html", false, "Write the interactive HTML diagram (<usecase>.html).")
	settleFlag := flagSet.Duration("settle-delay", lifecycle.DefaultSettleDelay, "Pause between element groups; overrides the use-case file. 0 disables it.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	settleSet := false
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == "settle-delay" {
			settleSet = true
		}
	})

	path := ""
	if *usecaseFlag != "" {
		path = *usecaseFlag
	} else if *uFlag != "" {
		path = *uFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Use-case path determined.", "path", path)

	if path == "" {
		slog.Debug("No use-case path provided, printing usage and exiting.")
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
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if !*scriptFlag && !*dotFlag && !*htmlFlag {
		slog.Debug("All file outputs disabled; only the summary is printed.")
	}

	config, err := app.NewConfig(app.Config{
		UsecasePath:    path,
		KindsPath:      *kindsFlag,
		OutDir:         *outFlag,
		WriteScript:    *scriptFlag,
		WriteDOT:       *dotFlag,
		WriteHTML:      *htmlFlag,
		SettleDelay:    *settleFlag,
		SettleDelaySet: settleSet,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
