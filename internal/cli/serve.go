// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/likexian/selfca"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/net/netutil"

	"pwd-strength/internal/api"
	"pwd-strength/internal/util"
	"pwd-strength/pkg/strength"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the password evaluation API",
		Long: "Serve the password evaluation API. Every flag can also be set with the environment " +
			"variable shown in brackets, or in a .env file in the working directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCommand(cmd.Context())
		},
	}
	serveConfig = viper.New()
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	f := serveCmd.Flags()
	f.Uint16P("port", "p", 3000, "Port to be used by the server [PORT]")
	f.StringP("denylist", "d", "", "Password list (file, http(s) URL or s3://bucket/object) or .gcs file of compromised passwords [DENYLIST_SOURCE]")
	f.String("locale", "es", "Default language of the responses, negotiated per request with Accept-Language [LOCALE]")
	f.Bool("self-tls", false, "If the server should use a self-signed certificate when starting. The certificate is renewed on each server restart [SELF_TLS]")
	f.String("tls-cert", "", "Path to the PEM encoded TLS certificate to be used by the server [TLS_CERT]")
	f.String("tls-key", "", "Path to the PEM encoded TLS private key to be used by the server [TLS_KEY]")
	f.Int("max-connections", 0, "Maximum simultaneous connections, 0 for no limit [MAX_CONNECTIONS]")
	f.StringSlice("cors-origins", nil, "Origins allowed to call the API from a browser [CORS_ORIGINS]")
	f.String("sentry-dsn", "", "Sentry DSN to report errors to [SENTRY_DSN]")
	f.Int64("cache-size", 100_000, "Lookups remembered when the denylist is a .gcs file [CACHE_SIZE]")

	bindings := map[string]string{
		"PORT":            "port",
		"DENYLIST_SOURCE": "denylist",
		"LOCALE":          "locale",
		"SELF_TLS":        "self-tls",
		"TLS_CERT":        "tls-cert",
		"TLS_KEY":         "tls-key",
		"MAX_CONNECTIONS": "max-connections",
		"CORS_ORIGINS":    "cors-origins",
		"SENTRY_DSN":      "sentry-dsn",
		"CACHE_SIZE":      "cache-size",
	}
	for key, flag := range bindings {
		serveConfig.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(serveCmd)
}

func serveCommand(ctx context.Context) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	if err := api.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("error reading .env file: %w", err)
	}

	cfg, err := api.LoadConfig(serveConfig)
	if err != nil {
		log.Error().Msg(err.Error())
		return err
	}

	if !verbose && !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.SentryDsn != "" {
		if err = sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDsn}); err != nil {
			return fmt.Errorf("error initializing Sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Nothing is served until the denylist is completely loaded.
	d, err := loadDenylist(ctx, cfg.DenylistSource, cfg.CacheSize, cfg.S3())
	if err != nil {
		log.Error().Err(err).Msg("error loading denylist")
		return err
	}

	handler := api.NewRouter(cfg, strength.NewEvaluator(d), d.Len())

	srvAddr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              srvAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", srvAddr)
	if err != nil {
		return fmt.Errorf("error listening on %s: %w", srvAddr, err)
	}
	if cfg.MaxConnections > 0 {
		listener = netutil.LimitListener(listener, cfg.MaxConnections)
	}

	go func() {
		if err := serve(srv, listener, cfg); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("error starting server")
		}
	}()

	gracefulShutdown(srv)
	return nil
}

func serve(srv *http.Server, listener net.Listener, cfg api.Config) error {
	switch {
	case cfg.TLSCert != "" && cfg.TLSKey != "":
		log.Info().Msgf("starting TLS server on address: %s", srv.Addr)
		return srv.ServeTLS(listener, cfg.TLSCert, cfg.TLSKey)
	case cfg.SelfTLS:
		log.Warn().Msg("using auto self-signed certificate for TLS. This is not recommended for production. Please consider using your own certificates.")
		pair, err := selfSignedCertificate()
		if err != nil {
			return err
		}

		srv.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{pair},
			MinVersion:   tls.VersionTLS12,
		}

		log.Info().Msgf("starting TLS server on address: %s", srv.Addr)
		// tls config is set, no need to pass files
		return srv.ServeTLS(listener, "", "")
	default:
		log.Warn().Msg("no TLS configuration, serving plain HTTP. Use --self-tls or --tls-cert and --tls-key to enable TLS")
		log.Info().Msgf("starting server on address: %s", srv.Addr)
		return srv.Serve(listener)
	}
}

func selfSignedCertificate() (tls.Certificate, error) {
	caConfig := selfca.Certificate{
		IsCA:      true,
		KeySize:   2048,
		NotBefore: time.Now(),
		// 30 day self-signed cert.
		NotAfter: time.Now().Add(time.Duration(30*24) * time.Hour),
	}

	certificate, key, err := selfca.GenerateCertificate(caConfig)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("error generating auto self-signed certificate: %w", err)
	}

	return tls.X509KeyPair(
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certificate}),
		pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}),
	)
}

func gracefulShutdown(srv *http.Server) {
	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server exiting...")
}
