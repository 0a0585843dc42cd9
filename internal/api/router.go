// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"pwd-strength/pkg/strength"
)

// NewRouter builds the HTTP handler of the service. denylistSize is only reported by
// the health check.
func NewRouter(cfg Config, evaluator *strength.Evaluator, denylistSize int) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.SetLogger(logger.WithLogger(func(c *gin.Context, z zerolog.Logger) zerolog.Logger {
		return zerolog.New(gin.DefaultWriter).With().Timestamp().Logger()
	})))
	if cfg.SentryDsn != "" {
		router.Use(sentryReporter(sentry.CurrentHub()))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, healthResponse{Status: "ok", Denylist: denylistSize})
	})

	v1 := router.Group("/api/v1")
	RegisterEvaluateApi(v1, evaluator, cfg.DefaultLocale())

	if len(cfg.CorsOrigins) == 0 {
		return router
	}

	return cors.New(cors.Options{
		AllowedOrigins: cfg.CorsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "Accept-Language"},
	}).Handler(router)
}

// sentryReporter sends panics to Sentry through hub and re-raises them for
// gin.Recovery to answer. Bad requests are client errors and are not reported.
func sentryReporter(hub *sentry.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqHub := hub.Clone()
		reqHub.Scope().SetRequest(c.Request)

		defer func() {
			if err := recover(); err != nil {
				reqHub.RecoverWithContext(c.Request.Context(), err)
				panic(err)
			}
		}()

		c.Next()
	}
}
