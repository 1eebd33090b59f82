package signals

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Kind string

const (
	KindTherapy Kind = "therapy"
	KindIntake  Kind = "intake"
	KindReading Kind = "reading"
	KindFollow  Kind = "follow"

	// Symptoms and clinical data are shown to doctors but don't contribute to alerts
	KindSymptom      Kind = "symptom"
	KindClinicalData Kind = "clinicalData"
)

// AffectsAlerts returns false for changes which can't alter the outcome of an evaluation
func (k Kind) AffectsAlerts() bool {
	switch k {
	case KindSymptom, KindClinicalData:
		return false
	default:
		return true
	}
}

type Audience string

const (
	AudienceDoctor  Audience = "doctor"
	AudiencePatient Audience = "patient"
)

// Change is raised by the write path after a therapy, intake, reading or follow
// relationship of a patient was created, updated or deleted. DoctorId is set for
// follow changes, because a doctor who stopped following the patient is no longer
// reachable from the patient record.
type Change struct {
	PatientId string    `json:"patientId"`
	DoctorId  string    `json:"doctorId,omitempty"`
	Kind      Kind      `json:"kind"`
	Time      time.Time `json:"time"`
}

// Indicator is the outcome of an evaluation published for the presentation layer
type Indicator struct {
	RunId         string    `json:"runId"`
	Audience      Audience  `json:"audience"`
	SubjectId     string    `json:"subjectId"`
	Color         string    `json:"color"`
	AlertCount    int       `json:"alertCount"`
	EvaluatedTime time.Time `json:"evaluatedTime"`
}

//go:generate mockgen --build_flags=--mod=mod -source=./signals.go -destination=./test/mock_signals.go -package test MockPublisher,MockSubscriber,MockIndicators
type Publisher interface {
	Publish(ctx context.Context, change Change) error
	PublishIndicator(ctx context.Context, indicator Indicator) error
}

type Subscriber interface {
	// Subscribe returns a channel of changes which is closed when ctx is done or
	// the returned close function is called
	Subscribe(ctx context.Context) (<-chan Change, func() error, error)
}

// Indicators reads back the indicators published by the evaluations
type Indicators interface {
	// LatestIndicator returns nil if no indicator of the subject was published since the ttl
	LatestIndicator(ctx context.Context, audience Audience, subjectId string) (*Indicator, error)
}

// Notify publishes a change of the patient's data. Failures are logged and not returned,
// because the periodic evaluation eventually catches up with the change.
func Notify(ctx context.Context, publisher Publisher, logger *zap.SugaredLogger, patientId string, kind Kind) {
	NotifyChange(ctx, publisher, logger, Change{
		PatientId: patientId,
		Kind:      kind,
	})
}

func NotifyChange(ctx context.Context, publisher Publisher, logger *zap.SugaredLogger, change Change) {
	if change.Time.IsZero() {
		change.Time = time.Now()
	}
	if err := publisher.Publish(ctx, change); err != nil {
		logger.Warnw("unable to publish change", "patientId", change.PatientId, "kind", change.Kind, "error", err)
	}
}
