package alerts

import (
	"context"
	"time"

	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/intakes"
	"github.com/tidepool-org/adherence/patients"
	"github.com/tidepool-org/adherence/readings"
	"github.com/tidepool-org/adherence/store"
	"github.com/tidepool-org/adherence/therapies"
)

type dataSource struct {
	patients  patients.Service
	therapies therapies.Service
	intakes   intakes.Service
	readings  readings.Service
	clock     *calendar.Clock
}

var _ DataSource = &dataSource{}

func NewDataSource(patientsService patients.Service, therapiesService therapies.Service, intakesService intakes.Service, readingsService readings.Service, clock *calendar.Clock) DataSource {
	return &dataSource{
		patients:  patientsService,
		therapies: therapiesService,
		intakes:   intakesService,
		readings:  readingsService,
		clock:     clock,
	}
}

// unbounded returns all the matching documents
var unbounded = store.Pagination{}

func (d *dataSource) Patient(ctx context.Context, patientId string) (*patients.Patient, error) {
	return d.patients.Get(ctx, patientId)
}

func (d *dataSource) FollowedPatients(ctx context.Context, doctorId string) ([]*patients.Patient, error) {
	return d.patients.List(ctx, patients.Filter{DoctorId: &doctorId}, unbounded)
}

func (d *dataSource) ActiveTherapiesForPatient(ctx context.Context, patientId string, asOf time.Time) ([]*therapies.Therapy, error) {
	day := calendar.Date(asOf)
	return d.therapies.List(ctx, therapies.Filter{PatientId: &patientId, ActiveOn: &day}, unbounded)
}

func (d *dataSource) AllTherapiesForPatient(ctx context.Context, patientId string) ([]*therapies.Therapy, error) {
	return d.therapies.List(ctx, therapies.Filter{PatientId: &patientId}, unbounded)
}

func (d *dataSource) IntakesForPatientOnDay(ctx context.Context, patientId string, day time.Time) ([]*intakes.Intake, error) {
	from, to := d.clock.Bounds(day)
	return d.intakes.List(ctx, intakes.Filter{PatientId: patientId, From: &from, To: &to}, unbounded)
}

func (d *dataSource) IntakesForPatientToday(ctx context.Context, patientId string) ([]*intakes.Intake, error) {
	return d.IntakesForPatientOnDay(ctx, patientId, d.clock.Today())
}

func (d *dataSource) ReadingsForPatient(ctx context.Context, patientId string) ([]*readings.Reading, error) {
	return d.readings.List(ctx, readings.Filter{PatientId: patientId}, unbounded)
}

func (d *dataSource) ReadingsForPatientToday(ctx context.Context, patientId string) ([]*readings.Reading, error) {
	from, to := d.clock.Bounds(d.clock.Today())
	return d.readings.List(ctx, readings.Filter{PatientId: patientId, From: &from, To: &to}, unbounded)
}
