package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/gommon/color"

	"github.com/eringen/pubfront"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "export":
		dir := "out"
		if len(os.Args) > 2 {
			dir = os.Args[2]
		}
		if err := runExport(dir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("pubfront %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	cfg, err := loadConfig(newViper())
	if err != nil {
		return err
	}
	app := pubfront.New(cfg)
	app.Echo.HideBanner = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- app.Start()
	}()

	select {
	case err := <-errc:
		app.Close()
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}

func runExport(dir string) error {
	cfg, err := loadConfig(newViper())
	if err != nil {
		return err
	}
	app := pubfront.New(cfg)
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	n, err := app.Export(ctx, dir)
	fmt.Printf("%s %d post pages to %s\n", color.Green("exported"), n, dir)
	return exportError(err)
}

// exportError lists each failed page of a joined export error and wraps any
// other error with its detail intact.
func exportError(err error) error {
	if err == nil {
		return nil
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return fmt.Errorf("export: %w", err)
	}
	for _, e := range joined.Unwrap() {
		fmt.Fprintf(os.Stderr, "  %s %v\n", color.Red("failed"), e)
	}
	return fmt.Errorf("export: %d pages failed to generate", len(joined.Unwrap()))
}

func printUsage() {
	fmt.Println(`pubfront - A blog front-end for a headless content store, built with Go, Echo, and templ

Usage:
  pubfront <command> [arguments]

Commands:
  serve         Pre-render posts and serve the site
  export [dir]  Write the site as static files (default "out")
  version       Print the pubfront version
  help          Show this help message

Configuration is read from .env, config.yaml and the environment.`)
}
