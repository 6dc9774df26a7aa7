package app

import (
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/fx"

	"github.com/fatflowers/gymcore/internal/app/api/server"
	"github.com/fatflowers/gymcore/internal/app/service/access"
	"github.com/fatflowers/gymcore/internal/app/service/membership"
	"github.com/fatflowers/gymcore/internal/app/service/snapshot"
	"github.com/fatflowers/gymcore/internal/app/service/statistics"
	"github.com/fatflowers/gymcore/internal/platform/db"
	"github.com/fatflowers/gymcore/pkg/cache"
	"github.com/fatflowers/gymcore/pkg/config"
	"github.com/fatflowers/gymcore/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

// Core wires every dependency of the domain services without the HTTP server.
var Core = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	cache.Module,
	fx.Provide(clockwork.NewRealClock),
	membership.Module,
	access.Module,
	snapshot.Module,
	statistics.Module,
)

var Module = fx.Options(
	Core,
	server.Module,
)
