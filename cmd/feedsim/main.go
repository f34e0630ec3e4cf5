// Command feedsim runs a simulated prop feed for local development: raw
// rows in the historical schema shapes plus drifting live stat lines.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/courtside/proptracker/internal/feedsim"
	"github.com/courtside/proptracker/pkg/logger"
)

const (
	defaultAddr       = ":8791"
	defaultTick       = 5 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	var (
		addr = flag.String("addr", defaultAddr, "listen address")
		tick = flag.Duration("tick", defaultTick, "simulation tick interval")
		seed = flag.Int64("seed", 0, "random seed (0 means time-based)")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var opts []feedsim.Option
	if *seed != 0 {
		opts = append(opts, feedsim.WithSeed(*seed))
	}
	server := feedsim.NewServer(feedsim.New(opts...))

	mux := http.NewServeMux()
	server.Register(mux)

	go server.Run(ctx, *tick)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "feedsim serving", logger.String("addr", *addr), logger.Duration("tick", *tick))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("feedsim server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	log.Info(context.Background(), "feedsim stopped")
}
