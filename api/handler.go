package api

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/adherence/alerts"
	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/doctors"
	"github.com/tidepool-org/adherence/intakes"
	"github.com/tidepool-org/adherence/patients"
	"github.com/tidepool-org/adherence/readings"
	"github.com/tidepool-org/adherence/signals"
	"github.com/tidepool-org/adherence/store"
	"github.com/tidepool-org/adherence/symptoms"
	"github.com/tidepool-org/adherence/therapies"
)

type Handler struct {
	doctors    doctors.Service
	patients   patients.Service
	therapies  therapies.Service
	intakes    intakes.Service
	readings   readings.Service
	symptoms   symptoms.Service
	engine     alerts.Engine
	indicators signals.Indicators
	clock      *calendar.Clock
	logger     *zap.SugaredLogger
}

type Params struct {
	fx.In

	Doctors    doctors.Service
	Patients   patients.Service
	Therapies  therapies.Service
	Intakes    intakes.Service
	Readings   readings.Service
	Symptoms   symptoms.Service
	Engine     alerts.Engine
	Indicators signals.Indicators
	Clock      *calendar.Clock
	Logger     *zap.SugaredLogger
}

func NewHandler(p Params) *Handler {
	return &Handler{
		doctors:    p.Doctors,
		patients:   p.Patients,
		therapies:  p.Therapies,
		intakes:    p.Intakes,
		readings:   p.Readings,
		symptoms:   p.Symptoms,
		engine:     p.Engine,
		indicators: p.Indicators,
		clock:      p.Clock,
		logger:     p.Logger,
	}
}

func RegisterHandlers(e *echo.Echo, h *Handler) {
	v1 := e.Group("/v1")

	v1.GET("/doctors", h.ListDoctors)
	v1.POST("/doctors", h.CreateDoctor)
	v1.GET("/doctors/:doctorId", h.GetDoctor)
	v1.GET("/doctors/:doctorId/alerts", h.GetDoctorAlerts)
	v1.GET("/doctors/:doctorId/alerts/report", h.GetDoctorAlertsReport)
	v1.GET("/doctors/:doctorId/indicator", h.GetDoctorIndicator)
	v1.PUT("/doctors/:doctorId/patients/:patientId", h.FollowPatient)
	v1.DELETE("/doctors/:doctorId/patients/:patientId", h.UnfollowPatient)
	v1.PUT("/doctors/:doctorId/patients/:patientId/clinical-data", h.UpdateClinicalData)

	v1.GET("/patients", h.ListPatients)
	v1.POST("/patients", h.CreatePatient)
	v1.GET("/patients/:patientId", h.GetPatient)
	v1.GET("/patients/:patientId/alerts", h.GetPatientAlerts)
	v1.GET("/patients/:patientId/indicator", h.GetPatientIndicator)
	v1.GET("/patients/:patientId/therapies", h.ListTherapies)
	v1.POST("/patients/:patientId/therapies", h.CreateTherapy)
	v1.GET("/patients/:patientId/intakes", h.ListIntakes)
	v1.POST("/patients/:patientId/intakes", h.CreateIntake)
	v1.GET("/patients/:patientId/readings", h.ListReadings)
	v1.POST("/patients/:patientId/readings", h.CreateReading)
	v1.GET("/patients/:patientId/symptoms", h.ListSymptoms)
	v1.POST("/patients/:patientId/symptoms", h.CreateSymptom)

	v1.GET("/therapies", h.ResolveTherapy)
	v1.GET("/therapies/:therapyId", h.GetTherapy)
	v1.PUT("/therapies/:therapyId", h.UpdateTherapy)
	v1.DELETE("/therapies/:therapyId", h.DeleteTherapy)

	v1.DELETE("/intakes/:intakeId", h.DeleteIntake)
	v1.DELETE("/readings/:readingId", h.DeleteReading)
	v1.DELETE("/symptoms/:symptomId", h.DeleteSymptom)
}

func pagination(ec echo.Context) (store.Pagination, error) {
	page := store.DefaultPagination()
	err := echo.QueryParamsBinder(ec).
		Int("offset", &page.Offset).
		Int("limit", &page.Limit).
		BindError()
	return page, err
}
