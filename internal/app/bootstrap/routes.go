// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/threadhub/internal/app/actions"
	activityfeature "github.com/dalemusser/threadhub/internal/app/features/activity"
	healthfeature "github.com/dalemusser/threadhub/internal/app/features/health"
	profilefeature "github.com/dalemusser/threadhub/internal/app/features/profile"
	sessionfeature "github.com/dalemusser/threadhub/internal/app/features/session"
	usersfeature "github.com/dalemusser/threadhub/internal/app/features/users"
	"github.com/dalemusser/threadhub/internal/app/system/auth"
	"github.com/dalemusser/threadhub/internal/app/system/revalidate"
	"github.com/dalemusser/threadhub/internal/app/system/search"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// ThreadHub exposes a small JSON API over the user actions:
//
//	GET  /health                   database reachability
//	GET  /metrics                  Prometheus
//	GET  /users?q=&page=&size=&sort=
//	GET  /users/{identity}
//	GET  /users/{identity}/threads
//	PUT  /profile                  signed in
//	GET  /activity                 signed in
//	POST /session                  dev only: sign in by identity
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	acts := actions.New(actions.Options{
		Conn:        deps.Mongo,
		Revalidator: revalidate.NewPublisher(deps.Redis, logger),
		Logger:      logger,
		SearchMode:  search.ParseMode(appCfg.SearchMode),
	})

	r := chi.NewRouter()

	// Loads the caller's identity into context when the session cookie has one.
	r.Use(sessionMgr.LoadSession)

	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.Mongo, logger)))
	r.Handle("/metrics", promhttp.Handler())

	r.Mount("/users", usersfeature.Routes(usersfeature.NewHandler(acts, logger)))
	r.Mount("/profile", profilefeature.Routes(profilefeature.NewHandler(acts, logger), sessionMgr))
	r.Mount("/activity", activityfeature.Routes(activityfeature.NewHandler(acts, logger), sessionMgr))

	if coreCfg.Env == "dev" {
		logger.Warn("dev sign-in enabled at /session")
		r.Mount("/session", sessionfeature.Routes(sessionfeature.NewHandler(sessionMgr, logger)))
	}

	return r, nil
}
