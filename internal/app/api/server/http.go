package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/gymcore/internal/app/api/handlers"
	mw "github.com/fatflowers/gymcore/internal/app/api/middleware"
	"github.com/fatflowers/gymcore/internal/app/service/access"
	"github.com/fatflowers/gymcore/internal/app/service/membership"
	"github.com/fatflowers/gymcore/internal/app/service/snapshot"
	"github.com/fatflowers/gymcore/internal/app/service/statistics"
	cfgpkg "github.com/fatflowers/gymcore/pkg/config"
	"github.com/fatflowers/gymcore/pkg/metrics"
)

func newEngine(cfg *cfgpkg.Config) *gin.Engine {
	if cfg != nil && cfg.Env == cfgpkg.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

type routeDeps struct {
	fx.In

	Log         *zap.SugaredLogger
	Config      *cfgpkg.Config
	Memberships *membership.Service
	Access      *access.Service
	Snapshots   *snapshot.Service
	Statistics  *statistics.Service
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	// Prometheus metrics
	if d.Config != nil && d.Config.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return "unmatched"
			},
			Logger: d.Log,
		})
		p.SetListenAddress(d.Config.MetricsAddr)
		p.Use(r)

		d.Log.Infow("metrics started", "addr", d.Config.MetricsAddr)
	}

	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware(d.Log))
	handlers.RegisterHealthRoutes(pub)

	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware(d.Log))
	handlers.RegisterPlanRoutes(apiV1, d.Memberships)
	handlers.RegisterMembershipRoutes(apiV1, d.Memberships)
	handlers.RegisterAccessRoutes(apiV1, d.Access)
	handlers.RegisterSnapshotRoutes(apiV1, d.Snapshots)
	handlers.RegisterAdminRoutes(apiV1.Group("/admin"), d.Statistics)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
