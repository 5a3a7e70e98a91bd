package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbrnz/flatmap-server/internal/annotator"
	"github.com/dbrnz/flatmap-server/internal/api"
	"github.com/dbrnz/flatmap-server/internal/flatmap"
	"github.com/dbrnz/flatmap-server/internal/identity"
	"github.com/dbrnz/flatmap-server/internal/logging"
	"github.com/dbrnz/flatmap-server/internal/session"
)

var (
	flagHost string
	flagPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve flatmaps and the annotation API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagHost, "host", "", "address to listen on (default localhost)")
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "port to listen on (default 4329)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if flagHost != "" {
		cfg.Host = flagHost
	}
	if flagPort != 0 {
		cfg.Port = flagPort
	}

	log := logging.New(logging.Console(), cfg.LogLevel)

	var resolver identity.Resolver
	if cfg.IdentityEndpoint != "" {
		resolver = identity.NewHTTPResolver(cfg.IdentityEndpoint)
	} else {
		log.Warn().Msg("no identity endpoint configured; using the built-in test user")
		resolver = identity.Static{User: identity.TestUser}
	}

	sessions := session.NewRegistry()
	svc := annotator.New(cfg.AnnotationDBPath(), sessions, resolver, log)
	catalog := flatmap.NewCatalog(cfg.FlatmapRoot, log)
	router := api.New(svc, catalog, log)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("flatmaps", cfg.FlatmapRoot).Msg("serving")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
