// main is the entry point of the students front-end. It serves the
// registration screen at "/" and the dashboard at "/dashboard", both
// talking to the students API at api.base_url.
//
//	go run ./cmd/students-web --config=config/local.yaml
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/students-portal/internal/client"
	"github.com/aanand-mishra/students-portal/internal/config"
	"github.com/aanand-mishra/students-portal/internal/dashboard"
	"github.com/aanand-mishra/students-portal/internal/form"
	"github.com/aanand-mishra/students-portal/internal/http/handlers/web"
	"github.com/aanand-mishra/students-portal/internal/logger"
	"github.com/aanand-mishra/students-portal/internal/validator"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.Env)

	log.Info("starting students-web",
		slog.String("env", cfg.Env),
		slog.String("api", cfg.API.BaseURL),
		slog.Duration("api_timeout", cfg.API.Timeout),
	)

	api := client.New(cfg.API)
	v, err := validator.New()
	if err != nil {
		log.Error("failed to initialise validator", slog.String("error", err.Error()))
		os.Exit(1)
	}

	screens, err := web.New(form.NewRegistration(api, v), dashboard.New(api, v))
	if err != nil {
		log.Error("failed to load templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Handlers wait on the API, so leave room for its timeout.
	server := &http.Server{
		Addr:         cfg.Web.Addr,
		Handler:      screens.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.API.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.Web.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
