package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-blog-server/internal/config"
	"github.com/jrsteele09/go-blog-server/internal/telemetry"
	"github.com/jrsteele09/go-blog-server/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the blog HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), c)
	},
}

func serve(parent context.Context, c config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	displayAppname(c.GetAppName())

	tel, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:       c.GetTelemetryEnabled(),
		ServiceName:   c.GetServiceName(),
		Environment:   c.GetEnv(),
		CollectorAddr: c.GetCollectorAddr(),
	})
	if err != nil {
		return err
	}

	stores, err := openBackends(ctx, c)
	if err != nil {
		return err
	}

	handler, err := server.New(c, stores.repos, stores.sessions)
	if err != nil {
		stores.Close(context.Background())
		return err
	}
	go handler.RunJanitor(ctx, janitorInterval)

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(httpServer)
	}()

	select {
	case err = <-serveErr:
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received")
		err = shutdown(httpServer)
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	stores.Close(closeCtx)
	if tErr := tel.Shutdown(closeCtx); tErr != nil {
		log.Err(tErr).Msg("failed to flush telemetry")
	}
	if err == nil {
		log.Info().Msg("Server stopped")
	}
	return err
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
