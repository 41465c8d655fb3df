package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/usecasegen/internal/app"
	"github.com/vk/usecasegen/internal/cli"
	"github.com/vk/usecasegen/internal/config"
)

// main is the entrypoint for the usecasegen compiler.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	return runWithLoader(outW, args, app.DefaultLoader())
}

func runWithLoader(outW io.Writer, args []string, loader config.Loader) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Programmer errors surface as panics; report them like any other failure.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	a, err := app.NewApp(outW, appConfig, loader)
	if err != nil {
		return err
	}
	return a.Run(context.Background())
}
