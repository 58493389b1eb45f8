package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"etalase/internal/app"
	"etalase/internal/config"
	"etalase/pkg/logx"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Init()
		logx.Fatal().Err(err).Msg("configuration could not be loaded")
	}
	logx.Init(logx.LoggerOpts{Production: cfg.Environment().IsProduction()})

	a, err := app.New(cfg, app.Deps{})
	if err != nil {
		logx.Fatal().Err(err).Msg("application could not be started")
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	a.Start(ctx)

	servers := buildServers(cfg, a.Engine)
	errs := make(chan error, len(servers))
	for _, s := range servers {
		go func(s *http.Server) {
			var err error
			if s.TLSConfig != nil {
				err = s.ListenAndServeTLS("", "")
			} else {
				err = s.ListenAndServe()
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- fmt.Errorf("server %s: %w", s.Addr, err)
			}
		}(s)
	}

	select {
	case <-ctx.Done():
		logx.Info().Msg("shutting down")
	case err := <-errs:
		logx.Error().Err(err).Msg("server stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, s := range servers {
		if err := s.Shutdown(shutdownCtx); err != nil {
			logx.Warn().Err(err).Str("addr", s.Addr).Msg("server shutdown incomplete")
		}
	}
}

// buildServers returns a plain HTTP server, or an HTTPS server plus an HTTP
// listener that redirects to it when TLS is enabled.
func buildServers(cfg *config.Config, handler http.Handler) []*http.Server {
	httpAddr := ":" + cfg.Port
	if !cfg.TLSEnabled {
		logx.Info().Str("url", "http://localhost"+httpAddr).Msg("HTTP server starting")
		return []*http.Server{{Addr: httpAddr, Handler: handler}}
	}

	cert, err := app.LoadCertificate(cfg.TLSCertFile, cfg.TLSKeyFile)
	if err != nil {
		logx.Error().Err(err).Msg("self-signed certificate could not be created, serving HTTP only")
		return []*http.Server{{Addr: httpAddr, Handler: handler}}
	}

	httpsServer := &http.Server{
		Addr:    ":" + cfg.HTTPSPort,
		Handler: handler,
		TLSConfig: &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		},
	}

	redirect := &http.Server{
		Addr: httpAddr,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := r.Host
			if h, _, err := net.SplitHostPort(host); err == nil {
				host = h
			}
			httpsURL := fmt.Sprintf("https://%s:%s%s", host, cfg.HTTPSPort, r.URL.Path)
			if r.URL.RawQuery != "" {
				httpsURL += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, httpsURL, http.StatusMovedPermanently)
		}),
	}

	logx.Info().Str("url", "https://localhost:"+cfg.HTTPSPort).Msg("HTTPS server starting")
	logx.Info().Str("addr", httpAddr).Msg("HTTP server redirecting to HTTPS")
	return []*http.Server{httpsServer, redirect}
}
