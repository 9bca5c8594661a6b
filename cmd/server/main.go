package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/fitbit-discord-bot/internal/app"
	"github.com/jrsteele09/fitbit-discord-bot/internal/config"
	"github.com/jrsteele09/fitbit-discord-bot/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
	restartDelay    = 1 * time.Second
)

var errPanicRecovered = errors.New("panic recovered")

func main() {
	stop := waitForStopSignal()
	if err := superviseServer(func() error { return run(stop) }, restartDelay); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

// superviseServer restarts run after a recovered panic. Any other result ends
// the loop.
func superviseServer(run func() error, delay time.Duration) error {
	for {
		err := runRecovered(run)
		if !errors.Is(err, errPanicRecovered) {
			return err
		}
		log.Error().Err(err).Dur("delay", delay).Msg("Restarting server")
		time.Sleep(delay)
	}
}

func runRecovered(run func() error) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errPanicRecovered
		}
	}()
	return run()
}

func run(stop <-chan os.Signal) error {
	c, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	setupLogging(c.GetEnv())
	displayAppname(c.GetAppName())

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	a, err := app.New(ctx, c)
	if err != nil {
		return fmt.Errorf("app.New: %w", err)
	}
	defer a.Close()

	a.CommandCache.Load(ctx)

	handler, err := server.New(c, a.Linking, a.Commands)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- listenAndServe(srv) }()

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	return shutdown(srv)
}

func setupLogging(env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	if env == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(srv *http.Server) error {
	log.Info().Str("addr", srv.Addr).Msg("Server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
