// Command seek-devserver serves a scripted chat_stream endpoint for
// exercising the seek client without a real search backend.
//
// Usage:
//
//	seek-devserver [-addr :8000] [-delay 80ms]
//
// Messages starting with "!fail" replay a failed search.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/fwojciec/seek"
	"github.com/fwojciec/seek/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var defaultSources = []string{
	"https://go.dev/doc/effective_go",
	"https://pkg.go.dev/std",
	"https://en.wikipedia.org/wiki/Go_(programming_language)",
	"https://gobyexample.com",
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seek-devserver: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		addr     = flag.String("addr", ":8000", "Listen address")
		delay    = flag.Duration("delay", 80*time.Millisecond, "Pause between frames")
		logLevel = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	)
	flag.Parse()

	logger := logging.New(seek.LogConfig{Level: *logLevel}, os.Stderr)
	gin.SetMode(gin.ReleaseMode)

	srv := &http.Server{
		Addr: *addr,
		Handler: newRouter(&server{
			delay:   *delay,
			sources: defaultSources,
			newID:   uuid.NewString,
			logger:  logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", *addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
