package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tidepool-org/adherence/alerts"
	"github.com/tidepool-org/adherence/doctors"
	"github.com/tidepool-org/adherence/report"
	"github.com/tidepool-org/adherence/signals"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) GetDoctorAlerts(ec echo.Context) error {
	ctx := ec.Request().Context()
	evaluation := h.engine.EvaluateForDoctor(ctx, ec.Param("doctorId"))
	return ec.JSON(http.StatusOK, evaluation)
}

func (h *Handler) GetPatientAlerts(ec echo.Context) error {
	ctx := ec.Request().Context()
	evaluation := h.engine.EvaluateForPatient(ctx, ec.Param("patientId"))
	return ec.JSON(http.StatusOK, evaluation)
}

// GetDoctorAlertsReport exports the alert panel of a doctor as a spreadsheet
func (h *Handler) GetDoctorAlertsReport(ec echo.Context) error {
	ctx := ec.Request().Context()
	doctorId := ec.Param("doctorId")

	name := doctorId
	doctor, err := h.doctors.Get(ctx, doctorId)
	if err != nil && !errors.Is(err, doctors.ErrNotFound) {
		return err
	} else if err == nil {
		name = doctor.DisplayName()
	}

	evaluation := h.engine.EvaluateForDoctor(ctx, doctorId)
	file, err := report.NewReport(name, evaluation, h.clock.Location).Generate()
	if err != nil {
		return err
	}

	h.logger.Infow("alerts report exported", "doctorId", doctorId, "alerts", len(evaluation.Alerts))
	filename := fmt.Sprintf("alerts-%s-%s.xlsx", doctorId, evaluation.EvaluatedTime.In(h.clock.Location).Format("20060102"))
	ec.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	ec.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	ec.Response().WriteHeader(http.StatusOK)
	return file.Write(ec.Response())
}

func (h *Handler) GetDoctorIndicator(ec echo.Context) error {
	return h.indicator(ec, signals.AudienceDoctor, ec.Param("doctorId"))
}

func (h *Handler) GetPatientIndicator(ec echo.Context) error {
	return h.indicator(ec, signals.AudiencePatient, ec.Param("patientId"))
}

// indicator returns the indicator published by the last evaluation of the subject. Subjects
// which weren't evaluated since the indicator ttl are evaluated on the spot.
func (h *Handler) indicator(ec echo.Context, audience signals.Audience, subjectId string) error {
	ctx := ec.Request().Context()
	indicator, err := h.indicators.LatestIndicator(ctx, audience, subjectId)
	if err != nil {
		h.logger.Warnw("unable to read indicator", "audience", audience, "subjectId", subjectId, "error", err)
	}
	if indicator != nil {
		return ec.JSON(http.StatusOK, indicator)
	}

	var evaluation alerts.Evaluation
	if audience == signals.AudienceDoctor {
		evaluation = h.engine.EvaluateForDoctor(ctx, subjectId)
	} else {
		evaluation = h.engine.EvaluateForPatient(ctx, subjectId)
	}
	return ec.JSON(http.StatusOK, signals.Indicator{
		Audience:      audience,
		SubjectId:     subjectId,
		Color:         string(evaluation.Color),
		AlertCount:    len(evaluation.Alerts),
		EvaluatedTime: evaluation.EvaluatedTime,
	})
}
