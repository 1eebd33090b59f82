// Package watcher triggers the alert evaluations. Evaluations run periodically for every
// doctor and whenever the write path signals a change of a patient's data.
package watcher

import (
	"context"
	"fmt"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/adherence/alerts"
	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/config"
	"github.com/tidepool-org/adherence/doctors"
	"github.com/tidepool-org/adherence/patients"
	"github.com/tidepool-org/adherence/signals"
	"github.com/tidepool-org/adherence/store"
)

const doctorsPageSize = 100

type Watcher struct {
	engine          alerts.Engine
	doctorsService  doctors.Service
	patientsService patients.Service
	publisher       signals.Publisher
	subscriber      signals.Subscriber
	logger          *zap.SugaredLogger

	scheduler *cron.Cron
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

type Params struct {
	fx.In

	Config          *config.Config
	Clock           *calendar.Clock
	Engine          alerts.Engine
	DoctorsService  doctors.Service
	PatientsService patients.Service
	Publisher       signals.Publisher
	Subscriber      signals.Subscriber
	Logger          *zap.SugaredLogger
}

func NewWatcher(p Params) (*Watcher, error) {
	w := &Watcher{
		engine:          p.Engine,
		doctorsService:  p.DoctorsService,
		patientsService: p.PatientsService,
		publisher:       p.Publisher,
		subscriber:      p.Subscriber,
		logger:          p.Logger,
	}

	cronLogger := &cronLogger{logger: p.Logger}
	w.scheduler = cron.New(
		cron.WithLocation(p.Clock.Location),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	if _, err := w.scheduler.AddFunc(p.Config.EvaluationSchedule, w.runScheduled); err != nil {
		return nil, fmt.Errorf("invalid evaluation schedule %q: %w", p.Config.EvaluationSchedule, err)
	}

	return w, nil
}

// Register starts the watcher with the application unless it's disabled in the configuration
func Register(w *Watcher, cfg *config.Config, lifecycle fx.Lifecycle) {
	if !cfg.WatcherEnabled {
		w.logger.Infow("alerts watcher is disabled")
		return
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return w.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return w.Stop(ctx)
		},
	})
}

// Start subscribes to the data changes and starts the periodic evaluation
func (w *Watcher) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	changes, closeSubscription, err := w.subscriber.Subscribe(runCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("unable to subscribe to changes: %w", err)
	}
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			if err := closeSubscription(); err != nil {
				w.logger.Warnw("unable to close changes subscription", "error", err)
			}
		}()
		w.consume(runCtx, changes)
	}()

	w.scheduler.Start()
	w.logger.Infow("alerts watcher started", "entries", len(w.scheduler.Entries()))
	return nil
}

// Stop stops the scheduler and waits for the running evaluations to complete
func (w *Watcher) Stop(ctx context.Context) error {
	stopped := w.scheduler.Stop()
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		<-stopped.Done()
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Infow("alerts watcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Watcher) consume(ctx context.Context, changes <-chan signals.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			w.HandleChange(ctx, change)
		}
	}
}

func (w *Watcher) runScheduled() {
	ctx, cancel := store.NewDbContext()
	defer cancel()

	if err := w.EvaluateAll(ctx); err != nil {
		w.logger.Errorw("scheduled alerts evaluation failed", "error", err)
	}
}

// EvaluateAll evaluates the alerts of every doctor and publishes the indicators
func (w *Watcher) EvaluateAll(ctx context.Context) error {
	runId := uuid.NewString()
	w.logger.Infow("evaluating alerts of all doctors", "runId", runId)

	count := 0
	pagination := store.Pagination{Offset: 0, Limit: doctorsPageSize}
	for {
		page, err := w.doctorsService.List(ctx, pagination)
		if err != nil {
			return fmt.Errorf("unable to list doctors: %w", err)
		}
		for _, doctor := range page {
			if err := ctx.Err(); err != nil {
				return err
			}
			w.evaluateDoctor(ctx, runId, doctor.UserId)
			count++
		}
		if len(page) < pagination.Limit {
			break
		}
		pagination.Offset += pagination.Limit
	}

	w.logger.Infow("evaluated alerts of all doctors", "runId", runId, "doctors", count)
	return nil
}

// HandleChange re-evaluates the patient whose data changed and every doctor following them
func (w *Watcher) HandleChange(ctx context.Context, change signals.Change) {
	if !change.Kind.AffectsAlerts() {
		w.logger.Debugw("skipping evaluation of change", "patientId", change.PatientId, "kind", change.Kind)
		return
	}

	runId := uuid.NewString()
	w.logger.Infow("evaluating alerts after change", "runId", runId, "patientId", change.PatientId, "kind", change.Kind)

	doctorIds := mapset.NewThreadUnsafeSet[string]()
	if change.DoctorId != "" {
		doctorIds.Add(change.DoctorId)
	}

	patient, err := w.patientsService.Get(ctx, change.PatientId)
	if err != nil {
		w.logger.Warnw("unable to get patient of change", "runId", runId, "patientId", change.PatientId, "error", err)
	} else {
		doctorIds.Append(patient.Doctors...)
		w.evaluatePatient(ctx, runId, patient.UserId)
	}

	for _, doctorId := range mapset.Sorted(doctorIds) {
		w.evaluateDoctor(ctx, runId, doctorId)
	}
}

func (w *Watcher) evaluateDoctor(ctx context.Context, runId string, doctorId string) {
	evaluation := w.engine.EvaluateForDoctor(ctx, doctorId)
	w.publish(ctx, runId, signals.AudienceDoctor, doctorId, evaluation)
}

func (w *Watcher) evaluatePatient(ctx context.Context, runId string, patientId string) {
	evaluation := w.engine.EvaluateForPatient(ctx, patientId)
	w.publish(ctx, runId, signals.AudiencePatient, patientId, evaluation)
}

func (w *Watcher) publish(ctx context.Context, runId string, audience signals.Audience, subjectId string, evaluation alerts.Evaluation) {
	indicator := signals.Indicator{
		RunId:         runId,
		Audience:      audience,
		SubjectId:     subjectId,
		Color:         string(evaluation.Color),
		AlertCount:    len(evaluation.Alerts),
		EvaluatedTime: evaluation.EvaluatedTime,
	}
	if err := w.publisher.PublishIndicator(ctx, indicator); err != nil {
		w.logger.Warnw("unable to publish indicator", "runId", runId, "audience", audience, "subjectId", subjectId, "error", err)
	}
}

type cronLogger struct {
	logger *zap.SugaredLogger
}

func (c *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.logger.Debugw(msg, keysAndValues...)
}

func (c *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
