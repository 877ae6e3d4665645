package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/lumen/internal/config"
	"github.com/vango-dev/lumen/internal/logging"
	"github.com/vango-dev/lumen/pkg/lumen"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globals are the persistent flags shared by every command.
type globals struct {
	dir      string
	logLevel string
	logFile  string
}

func main() {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "lumen",
		Short: "Render, serve and export lumen component trees",
		Long: `lumen drives the demo component trees through every backend.

  • render  prints server-rendered markup (html, mathml, pdf)
  • serve   runs the HTTP server with metrics and a live op stream
  • export  uploads every page to S3
  • paint   rasterizes the canvas scene to PNG`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.dir, "dir", "C", ".", "Directory containing lumen.yaml")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (default from lumen.yaml)")
	rootCmd.PersistentFlags().StringVar(&g.logFile, "log-file", "", "Also write JSON logs to this file")

	rootCmd.AddCommand(
		renderCmd(g),
		serveCmd(g),
		exportCmd(g),
		paintCmd(g),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errorMsg("%s", err)
		os.Exit(1)
	}
}

// env is the loaded configuration and logger of one command run.
type env struct {
	cfg    *config.Config
	logger *logging.Logger
}

// setup loads lumen.yaml, applies it to the runtime and builds the logger.
func (g *globals) setup() (*env, error) {
	cfg, err := config.Load(g.dir)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFile != "" {
		cfg.Log.File = g.logFile
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	if err := cfg.Apply(); err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{Level: level, File: cfg.Log.File})
	if err != nil {
		return nil, err
	}
	lumen.SetLogger(logger.Logger)
	return &env{cfg: cfg, logger: logger}, nil
}

func (e *env) close() {
	lumen.SetLogger(nil)
	_ = e.logger.Close()
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
