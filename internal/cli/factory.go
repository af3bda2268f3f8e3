package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/moonbase/moonrobot"
	"github.com/moonbase/moonrobot/internal/config"
	"github.com/moonbase/moonrobot/pkg/adapters/file"
	"github.com/moonbase/moonrobot/pkg/adapters/memory"
	"github.com/moonbase/moonrobot/pkg/adapters/redis"
	"github.com/moonbase/moonrobot/pkg/observability"
	"github.com/moonbase/moonrobot/pkg/persistence/middleware"
	"github.com/moonbase/moonrobot/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App bundles the wired components a command needs.
type App struct {
	Settings   *config.Settings
	Logger     *slog.Logger
	Store      ports.Store
	Controller *moonrobot.Controller
	Registry   *prometheus.Registry
	Metrics    *observability.Metrics

	closers []io.Closer
}

// OpenStore builds the store selected by settings, plus a distributed locker
// when the backend can provide one.
func OpenStore(s config.StoreSettings) (ports.Store, ports.DistributedLocker, error) {
	switch s.Driver {
	case config.DriverMemory, "":
		return memory.NewStore(), nil, nil
	case config.DriverFile:
		return file.New(s.Path), nil, nil
	case config.DriverRedis:
		store := redis.New(s.RedisAddr, s.RedisPassword, s.RedisDB, redis.WithPrefix(s.RedisPrefix))
		return store, redis.NewLocker(store.Client(), store.Prefix()), nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", s.Driver)
	}
}

// Bootstrap opens the store, builds the controller and seeds the configured obstacles.
func Bootstrap(ctx context.Context, s *config.Settings, logger *slog.Logger) (*App, error) {
	store, locker, err := OpenStore(s.Store)
	if err != nil {
		return nil, err
	}

	app := &App{
		Settings: s,
		Logger:   logger,
		Store:    store,
		Registry: prometheus.NewRegistry(),
	}
	if c, ok := store.(io.Closer); ok {
		app.closers = append(app.closers, c)
	}

	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app.Metrics = observability.NewMetrics(app.Registry)

	mws := []middleware.Middleware{middleware.NewInstrumentedMiddleware(app.Registry)}
	if s.Debug {
		mws = append(mws, middleware.NewLoggingMiddleware(logger))
	}
	app.Store = middleware.Chain(store, mws...)

	opts := []moonrobot.Option{
		moonrobot.WithLogger(logger),
		moonrobot.WithRobotID(s.RobotID),
		moonrobot.WithStartState(s.StartState()),
		moonrobot.WithMaxCommandLength(s.MaxCommandLength),
		moonrobot.WithLockTTL(s.Store.LockTTL),
		moonrobot.WithLifecycleHooks(app.Metrics.Hooks()),
	}
	if s.Debug {
		opts = append(opts, moonrobot.WithLifecycleHooks(createDebugHooks(logger)))
	}
	if locker != nil {
		opts = append(opts, moonrobot.WithLocker(locker))
	}

	ctrl, err := moonrobot.New(app.Store, opts...)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("error initializing controller: %w", err)
	}
	app.Controller = ctrl

	if _, err := ctrl.SeedObstacles(ctx, s.ObstacleSet()); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

// EphemeralWarning explains that one-shot commands lose their state when the
// memory driver is selected. It is empty for persistent drivers.
func EphemeralWarning(s *config.Settings) string {
	if s.Store.Driver != config.DriverMemory && s.Store.Driver != "" {
		return ""
	}
	return fmt.Sprintf("store driver is %q: state is discarded when this command exits; set %sSTORE_DRIVER=file or redis to persist it",
		config.DriverMemory, config.EnvPrefix)
}

// Close releases backend connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}
