package api

import (
	"context"
	"fmt"

	"github.com/brpaz/echozap"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echomiddleware "github.com/oapi-codegen/echo-middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/adherence/adherence"
	"github.com/tidepool-org/adherence/alerts"
	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/config"
	"github.com/tidepool-org/adherence/doctors"
	doctorsRepository "github.com/tidepool-org/adherence/doctors/repository"
	"github.com/tidepool-org/adherence/errors"
	"github.com/tidepool-org/adherence/intakes"
	intakesRepository "github.com/tidepool-org/adherence/intakes/repository"
	"github.com/tidepool-org/adherence/logger"
	"github.com/tidepool-org/adherence/patients"
	patientsRepository "github.com/tidepool-org/adherence/patients/repository"
	"github.com/tidepool-org/adherence/readings"
	readingsRepository "github.com/tidepool-org/adherence/readings/repository"
	"github.com/tidepool-org/adherence/signals"
	"github.com/tidepool-org/adherence/store"
	"github.com/tidepool-org/adherence/symptoms"
	symptomsRepository "github.com/tidepool-org/adherence/symptoms/repository"
	"github.com/tidepool-org/adherence/therapies"
	therapiesRepository "github.com/tidepool-org/adherence/therapies/repository"
	"github.com/tidepool-org/adherence/watcher"
)

func Start(e *echo.Echo, cfg *config.Config, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) {
	address := fmt.Sprintf(":%d", cfg.HttpPort)
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(address); err != nil {
					logger.Infow("http server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

func SetReady(healthCheck *HealthCheck, db *mongo.Database, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := db.Client().Ping(ctx, nil); err != nil {
				return err
			}

			// Set after the repositories created their indexes, lifecycle hooks are
			// executed in topological order
			healthCheck.SetReady(true)
			return nil
		},
		OnStop: nil,
	})
}

func NewServer(handler *Handler, healthCheck *HealthCheck, logger *zap.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	swagger, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	// Do not validate servers in the open api document
	swagger.Servers = nil

	// Skip validation and access logs for the readiness check
	skipper := RouteSkipper([]string{"/ready"})
	requestValidator := echomiddleware.OapiRequestValidatorWithOptions(swagger, &echomiddleware.Options{
		Skipper: skipper,
	})

	e.Use(middleware.Recover())
	e.Use(WithSkipper(skipper, echozap.ZapLogger(logger)))
	e.Use(requestValidator)
	e.HTTPErrorHandler = errors.CustomHTTPErrorHandler

	e.GET("/ready", healthCheck.Ready)
	RegisterHandlers(e, handler)

	return e, nil
}

func NewClock(cfg *config.Config) (*calendar.Clock, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return calendar.New(loc), nil
}

// Dependencies returns the providers of the service dependency graph
func Dependencies() []fx.Option {
	return []fx.Option{
		fx.Provide(
			config.NewConfig,
			logger.NewConfig,
			logger.NewProductionLogger,
			logger.Suggar,
			NewClock,
			store.NewConfig,
			store.NewLifecycleClient,
			store.NewDatabase,
			signals.NewConfig,
			signals.NewClient,
			signals.NewBus,
			signals.NewPublisher,
			signals.NewSubscriber,
			signals.NewIndicators,
			doctorsRepository.NewRepository,
			doctors.NewService,
			patientsRepository.NewRepository,
			patients.NewService,
			therapiesRepository.NewRepository,
			therapies.NewService,
			intakesRepository.NewRepository,
			intakes.NewService,
			readingsRepository.NewRepository,
			readings.NewService,
			symptomsRepository.NewRepository,
			symptoms.NewService,
			adherence.NewEvaluator,
			alerts.NewDataSource,
			alerts.NewEngine,
		),
	}
}

func MainLoop() {
	fx.New(
		append(Dependencies(),
			fx.Provide(
				watcher.NewWatcher,
				NewHealthCheck,
				NewHandler,
				NewServer,
			),
			fx.Invoke(watcher.Register),
			fx.Invoke(SetReady),
			fx.Invoke(Start),
		)...,
	).Run()
}
