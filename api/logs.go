package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/errors"
	"github.com/tidepool-org/adherence/intakes"
	"github.com/tidepool-org/adherence/readings"
	"github.com/tidepool-org/adherence/symptoms"
)

// dayRange returns the bounds of the day passed in the date query parameter
func (h *Handler) dayRange(ec echo.Context) (*time.Time, *time.Time, error) {
	value := ec.QueryParam("date")
	if value == "" {
		return nil, nil, nil
	}
	day, err := calendar.Parse(value)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid date %q", errors.BadRequest, value)
	}
	from, to := h.clock.Bounds(day)
	return &from, &to, nil
}

func (h *Handler) ListIntakes(ec echo.Context) error {
	ctx := ec.Request().Context()
	page, err := pagination(ec)
	if err != nil {
		return err
	}
	from, to, err := h.dayRange(ec)
	if err != nil {
		return err
	}

	list, err := h.intakes.List(ctx, intakes.Filter{
		PatientId: ec.Param("patientId"),
		From:      from,
		To:        to,
	}, page)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, list)
}

func (h *Handler) CreateIntake(ec echo.Context) error {
	ctx := ec.Request().Context()
	intake := intakes.Intake{}
	if err := ec.Bind(&intake); err != nil {
		return err
	}
	intake.Id = nil
	intake.PatientId = ec.Param("patientId")

	created, err := h.intakes.Create(ctx, intake)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusCreated, created)
}

func (h *Handler) DeleteIntake(ec echo.Context) error {
	ctx := ec.Request().Context()
	if err := h.intakes.Delete(ctx, ec.Param("intakeId")); err != nil {
		return err
	}
	return ec.NoContent(http.StatusNoContent)
}

func (h *Handler) ListReadings(ec echo.Context) error {
	ctx := ec.Request().Context()
	page, err := pagination(ec)
	if err != nil {
		return err
	}
	from, to, err := h.dayRange(ec)
	if err != nil {
		return err
	}

	list, err := h.readings.List(ctx, readings.Filter{
		PatientId: ec.Param("patientId"),
		From:      from,
		To:        to,
	}, page)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, list)
}

func (h *Handler) CreateReading(ec echo.Context) error {
	ctx := ec.Request().Context()
	reading := readings.Reading{}
	if err := ec.Bind(&reading); err != nil {
		return err
	}
	reading.Id = nil
	reading.PatientId = ec.Param("patientId")

	created, err := h.readings.Create(ctx, reading)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusCreated, created)
}

func (h *Handler) DeleteReading(ec echo.Context) error {
	ctx := ec.Request().Context()
	if err := h.readings.Delete(ctx, ec.Param("readingId")); err != nil {
		return err
	}
	return ec.NoContent(http.StatusNoContent)
}

func (h *Handler) ListSymptoms(ec echo.Context) error {
	ctx := ec.Request().Context()
	page, err := pagination(ec)
	if err != nil {
		return err
	}

	filter := symptoms.Filter{PatientId: ec.Param("patientId")}
	if value := ec.QueryParam("type"); value != "" {
		symptomType := symptoms.Type(value)
		filter.Type = &symptomType
	}
	if value := ec.QueryParam("ongoingOn"); value != "" {
		day, err := calendar.Parse(value)
		if err != nil {
			return fmt.Errorf("%w: invalid date %q", errors.BadRequest, value)
		}
		filter.OngoingOn = &day
	}

	list, err := h.symptoms.List(ctx, filter, page)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, list)
}

func (h *Handler) CreateSymptom(ec echo.Context) error {
	ctx := ec.Request().Context()
	request := SymptomRequest{}
	if err := ec.Bind(&request); err != nil {
		return err
	}
	symptom, err := request.toSymptom(ec.Param("patientId"))
	if err != nil {
		return err
	}

	created, err := h.symptoms.Create(ctx, symptom)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusCreated, created)
}

func (h *Handler) DeleteSymptom(ec echo.Context) error {
	ctx := ec.Request().Context()
	if err := h.symptoms.Delete(ctx, ec.Param("symptomId")); err != nil {
		return err
	}
	return ec.NoContent(http.StatusNoContent)
}

// SymptomRequest carries the start and end dates as calendar days
type SymptomRequest struct {
	Type        symptoms.Type       `json:"type"`
	Description string              `json:"description"`
	StartDate   string              `json:"startDate"`
	EndDate     *string             `json:"endDate,omitempty"`
	Frequency   *symptoms.Frequency `json:"frequency,omitempty"`
	Note        *string             `json:"note,omitempty"`
}

func (r SymptomRequest) toSymptom(patientId string) (symptoms.Symptom, error) {
	symptom := symptoms.Symptom{
		PatientId:   patientId,
		Type:        r.Type,
		Description: r.Description,
		Frequency:   r.Frequency,
		Note:        r.Note,
	}
	startDate, err := calendar.Parse(r.StartDate)
	if err != nil {
		return symptom, fmt.Errorf("%w: invalid start date %q", errors.BadRequest, r.StartDate)
	}
	symptom.StartDate = startDate
	if r.EndDate != nil {
		endDate, err := calendar.Parse(*r.EndDate)
		if err != nil {
			return symptom, fmt.Errorf("%w: invalid end date %q", errors.BadRequest, *r.EndDate)
		}
		symptom.EndDate = &endDate
	}
	return symptom, nil
}
