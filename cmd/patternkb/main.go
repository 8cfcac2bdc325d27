// Package main provides patternkb, an MCP stdio server over a directory of
// pattern documents.
//
// The patterns directory comes from the PATTERNS_DIR environment variable;
// without it the process refuses to start. The library is loaded once at
// startup; patterns created through the create_pattern tool land on disk
// and become visible on the next start.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	flag "github.com/spf13/pflag"

	"github.com/patternkb/patternkb/internal/logging"
	"github.com/patternkb/patternkb/internal/mcp"
	"github.com/patternkb/patternkb/internal/pattern"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("patternkb", flag.ContinueOnError)
	logLevel := flags.String("log-level", "", "Override configured log level (debug|info|warn|error)")
	showVersion := flags.BoolP("version", "v", false, "Print version and exit")

	parseErr := flags.Parse(args)
	if parseErr != nil {
		fmt.Fprintln(os.Stderr, "error:", parseErr)

		return 2
	}

	if *showVersion {
		fmt.Println("patternkb " + version)

		return 0
	}

	env := environMap(os.Environ())

	cfg, warnings, cfgErr := pattern.LoadConfig(env)
	if cfgErr != nil {
		// The one fatal startup condition: no patterns directory configured.
		fmt.Fprintln(os.Stderr, "error:", cfgErr)

		return 1
	}

	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	log := logging.New(cfg.LogLevel, false)

	for _, warning := range warnings {
		log.Warn().Msg(warning)
	}

	lib := pattern.NewLibrary(pattern.LoadDir(cfg.PatternsDir))
	log.Info().
		Str("dir", cfg.PatternsDir).
		Int("patterns", lib.Len()).
		Msg("pattern library loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Info().Msg("shutting down")
		cancel()
	}()

	sessionID := uuid.NewString()
	server := mcp.NewServer(lib, cfg.PatternsDir, sessionID, log)

	log.Info().Str("session", sessionID).Msg("serving MCP on stdio")

	runErr := server.Run(ctx, os.Stdin, os.Stdout)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error().Err(runErr).Msg("server error")

		return 1
	}

	return 0
}

func environMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	return env
}
