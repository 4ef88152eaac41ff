// Command seek is a terminal client for a search-augmented chat backend.
//
// Usage:
//
//	seek [flags]
//	seek -prompt "what is rust?"
//
// Flags:
//
//	-config string      Path to a .yaml, .yml or .toml config file
//	-api-url string     Backend base URL (env SEEK_API_URL, default http://localhost:8000)
//	-log-level string   debug, info, warn or error (env SEEK_LOG_LEVEL)
//	-log-format string  text or json
//	-log-file string    Append logs to this file
//	-prompt string      Send one turn, print snapshots as JSON lines and exit
//	-checkpoint string  Resume a server-side conversation
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fwojciec/seek"
	bt "github.com/fwojciec/seek/bubbletea"
	seekjson "github.com/fwojciec/seek/json"
	"github.com/fwojciec/seek/logging"
	"github.com/fwojciec/seek/sse"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seek: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "Path to a .yaml, .yml or .toml config file")
		apiURL     = flag.String("api-url", "", "Backend base URL")
		logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error")
		logFormat  = flag.String("log-format", "", "Log format: text, json")
		logFile    = flag.String("log-file", "", "Append logs to this file")
		prompt     = flag.String("prompt", "", "Send one turn and print snapshots as JSON lines")
		checkpoint = flag.String("checkpoint", "", "Checkpoint ID of a conversation to resume")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := resolveConfig(*configPath,
		overrides{apiURL: *apiURL, logLevel: *logLevel, logFormat: *logFormat, logFile: *logFile},
		overrides{apiURL: os.Getenv("SEEK_API_URL"), logLevel: os.Getenv("SEEK_LOG_LEVEL")},
	)
	if err != nil {
		return err
	}

	// The TUI owns the terminal; logs go to the file or nowhere.
	var fallback io.Writer = io.Discard
	if *prompt != "" {
		fallback = os.Stderr
	}
	logger, closer, err := logging.Open(cfg.Log, fallback)
	if err != nil {
		return err
	}
	defer closer.Close()

	backend := sse.New(cfg.APIURL, sse.WithLogger(logger.With("component", "sse")))
	session := seek.NewSession(*checkpoint)

	if *prompt != "" {
		err := runHeadless(ctx, backend, session, *prompt, os.Stdout, logger)
		if errors.Is(err, errTurnFailed) {
			return err
		}
		if err != nil {
			return fmt.Errorf("headless: %w", err)
		}
		return nil
	}

	feed := bt.NewFeed()
	ctrl := seek.NewController(backend, seekjson.DecodeFrame, seek.NewConversation(cfg.Greeting), session,
		seek.WithLogger(logger),
		seek.WithUpdateHandler(feed.Publish),
	)
	model := bt.New(ctrl, feed, bt.WithMaxSources(cfg.MaxSources))
	logger.Info("starting", "api_url", cfg.APIURL, "resumed", *checkpoint != "")
	if err := bt.Run(ctx, model); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}
