package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/medium-cards/app/api"
	"github.com/lysyi3m/medium-cards/app/cfg"
	"github.com/lysyi3m/medium-cards/app/feed"
	"github.com/lysyi3m/medium-cards/app/loader"
	"github.com/lysyi3m/medium-cards/app/proxy"
	"github.com/lysyi3m/medium-cards/app/render"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	registry := proxy.NewRegistry(appCfg.ProxiesFile)
	if err := registry.Run(); err != nil {
		slog.Error("Failed to load proxy configuration", "path", appCfg.ProxiesFile, "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{
		Timeout: appCfg.RequestTimeout() + 5*time.Second,
	}

	chain := registry.Chain(httpClient, feed.NewParser(), appCfg.UserAgent, appCfg.RequestTimeout())
	if chain.Len() == 0 {
		slog.Error("No enabled proxies configured", "path", appCfg.ProxiesFile)
		os.Exit(1)
	}

	renderer, err := render.NewRenderer(render.Options{
		SkeletonCount: appCfg.SkeletonCount,
		ExcerptLength: appCfg.ExcerptLength,
		FallbackURL:   appCfg.FallbackURL,
	})
	if err != nil {
		slog.Error("Failed to initialize renderer", "error", err)
		os.Exit(1)
	}

	var enricher *loader.Enricher
	if appCfg.ExtractContent {
		enricher = loader.NewEnricher(httpClient, feed.NewContentExtractor(), appCfg.UserAgent, appCfg.RequestTimeout())
	}

	loaderOpts := loader.Options{
		FeedHost: appCfg.FeedHost,
		MaxItems: appCfg.MaxItems,
		Filters:  registry.Filters(),
	}

	if appCfg.Once {
		if err := renderOnce(appCfg, chain, renderer, enricher, loaderOpts); err != nil {
			slog.Error("Render failed", "error", err)
			os.Exit(1)
		}
		return
	}

	slog.Info("Starting Medium Cards", "version", appCfg.Version, "proxies", chain.Len())

	handler := api.NewHandler(registry, chain, renderer, enricher,
		feed.NewGenerator(appCfg.ExcerptLength), loaderOpts, appCfg.ContainerID, appCfg.Version)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Duration(chain.Len()+1) * (appCfg.RequestTimeout() + 5*time.Second),
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Medium Cards shutdown complete")
}

// renderOnce writes the container markup for the configured username to stdout.
func renderOnce(appCfg *cfg.Cfg, chain *proxy.Chain, renderer *render.Renderer, enricher *loader.Enricher, opts loader.Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	doc := render.NewDocument(appCfg.ContainerID)
	loader.NewLoader(doc, chain, renderer, enricher, opts).Load(ctx, appCfg.Username, appCfg.ContainerID)

	element, ok := doc.Element(appCfg.ContainerID)
	if !ok {
		return fmt.Errorf("container %s not found", appCfg.ContainerID)
	}

	_, err := fmt.Fprintln(os.Stdout, element.HTML())
	return err
}
