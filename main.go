package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cert-lv/ordergrid/pdk"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	// Holder all service's configuration
	config *Config

	// Instance of the global logger
	log zerolog.Logger

	// Current service's version
	version string
)

func main() {
	/*
	 * Parse configuration file
	 */
	err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can't load configuration: %s", err.Error())
		os.Exit(1)
	}

	/*
	 * Setup a global logger to the file or stdout
	 */
	err = setupLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can't setup a logger: %s", err.Error())
		os.Exit(1)
	}

	// Load service's version
	err = loadVersion()
	if err != nil {
		log.Fatal().Msg("Can't load version: " + err.Error())
	}

	/*
	 * Setup the search backend
	 */
	backend, err = setupBackend(config.Source)
	if err != nil {
		log.Fatal().Msg("Can't setup a backend: " + err.Error())
	}

	executor, err := setupCache(backend)
	if err != nil {
		log.Fatal().Msg("Can't setup a cache: " + err.Error())
	}

	/*
	 * Initial filters & time range
	 */
	list, err := loadFilters(config.Filters)
	if err != nil {
		log.Fatal().Msg("Can't load filters: " + err.Error())
	}

	filters = pdk.NewFilters(list)
	timefilter = pdk.NewTimefilter(config.timeRange())

	/*
	 * Presentation state
	 */
	toasts = newToasts(config.Notifications, hub.notification)
	grid = pdk.NewGrid(toasts, hub.rows)
	searcher = newSearcher(backend, executor)

	mux := http.NewServeMux()
	apiRoutes(mux)
	mux.HandleFunc("/ws", wsHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              config.Server.Host + ":" + config.Server.Port,
		Handler:           mux,
		ReadTimeout:       time.Duration(config.Server.ReadTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info().Msgf("Ordergrid v%s. Starting the service listening on %s", version, server.Addr)

		var err error
		if config.Server.CertFile != "" {
			err = server.ListenAndServeTLS(config.Server.CertFile, config.Server.KeyFile)
		} else {
			err = server.ListenAndServe()
		}

		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	/*
	 * Stop the service on signal or server failure
	 */
	group.Go(func() error {
		<-ctx.Done()

		// In-flight searches must not update a torn-down grid
		grid.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(config.Server.ShutdownTimeout)*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	err = group.Wait()
	if err != nil {
		log.Error().Msg("Service stopped: " + err.Error())
	}

	if cached, ok := executor.(*cachedExecutor); ok {
		err = cached.Close()
		if err != nil {
			log.Error().Msg("Can't close the cache: " + err.Error())
		}
	}

	err = backend.Stop()
	if err != nil {
		log.Error().
			Str("source", config.Source.Name).
			Msg("Can't stop the backend: " + err.Error())
	} else {
		log.Info().Msg("Service stopped")
	}
}
