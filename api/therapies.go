package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/errors"
	"github.com/tidepool-org/adherence/therapies"
)

type TherapyRequest struct {
	DoctorId     string  `json:"doctorId"`
	DrugName     string  `json:"drugName"`
	Dosage       string  `json:"dosage"`
	DailyIntakes int     `json:"dailyIntakes"`
	StartDate    string  `json:"startDate"`
	EndDate      *string `json:"endDate,omitempty"`
	Instructions *string `json:"instructions,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

type Therapy struct {
	Id           string  `json:"id"`
	Key          string  `json:"key"`
	DoctorId     string  `json:"doctorId"`
	DoctorName   string  `json:"doctorName"`
	PatientId    string  `json:"patientId"`
	DrugName     string  `json:"drugName"`
	Dosage       string  `json:"dosage"`
	DailyIntakes int     `json:"dailyIntakes"`
	StartDate    string  `json:"startDate"`
	EndDate      *string `json:"endDate,omitempty"`
	Continuous   bool    `json:"continuous"`
	Instructions *string `json:"instructions,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	ModifiedBy   *string `json:"modifiedBy,omitempty"`
	CreatedTime  string  `json:"createdTime"`
	UpdatedTime  string  `json:"updatedTime"`
}

func NewTherapyDto(therapy *therapies.Therapy) Therapy {
	dto := Therapy{
		Key:          therapy.Key().String(),
		DoctorId:     therapy.DoctorId,
		DoctorName:   therapy.DoctorName,
		PatientId:    therapy.PatientId,
		DrugName:     therapy.DrugName,
		Dosage:       therapy.Dosage,
		DailyIntakes: therapy.DailyIntakes,
		StartDate:    calendar.Format(therapy.StartDate),
		Continuous:   therapy.IsContinuous(),
		Instructions: therapy.Instructions,
		Notes:        therapy.Notes,
		ModifiedBy:   therapy.ModifiedBy,
		CreatedTime:  therapy.CreatedTime.Format(time.RFC3339),
		UpdatedTime:  therapy.UpdatedTime.Format(time.RFC3339),
	}
	if therapy.Id != nil {
		dto.Id = therapy.Id.Hex()
	}
	if therapy.EndDate != nil {
		endDate := calendar.Format(*therapy.EndDate)
		dto.EndDate = &endDate
	}
	return dto
}

func NewTherapiesDto(list []*therapies.Therapy) []Therapy {
	dtos := make([]Therapy, 0, len(list))
	for _, therapy := range list {
		dtos = append(dtos, NewTherapyDto(therapy))
	}
	return dtos
}

func parseDates(request TherapyRequest) (time.Time, *time.Time, error) {
	startDate, err := calendar.Parse(request.StartDate)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("%w: invalid start date %q", errors.BadRequest, request.StartDate)
	}
	if request.EndDate == nil || *request.EndDate == "" {
		return startDate, nil, nil
	}
	endDate, err := calendar.Parse(*request.EndDate)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("%w: invalid end date %q", errors.BadRequest, *request.EndDate)
	}
	return startDate, &endDate, nil
}

func (h *Handler) ListTherapies(ec echo.Context) error {
	ctx := ec.Request().Context()
	page, err := pagination(ec)
	if err != nil {
		return err
	}

	patientId := ec.Param("patientId")
	filter := therapies.Filter{
		PatientId: &patientId,
	}
	if doctorId := ec.QueryParam("doctorId"); doctorId != "" {
		filter.DoctorId = &doctorId
	}
	active := false
	if err := echo.QueryParamsBinder(ec).Bool("active", &active).BindError(); err != nil {
		return err
	}
	if active {
		today := h.clock.Today()
		filter.ActiveOn = &today
	}

	list, err := h.therapies.List(ctx, filter, page)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewTherapiesDto(list))
}

func (h *Handler) CreateTherapy(ec echo.Context) error {
	ctx := ec.Request().Context()
	request := TherapyRequest{}
	if err := ec.Bind(&request); err != nil {
		return err
	}
	startDate, endDate, err := parseDates(request)
	if err != nil {
		return err
	}

	created, err := h.therapies.Create(ctx, therapies.Therapy{
		DoctorId:     request.DoctorId,
		PatientId:    ec.Param("patientId"),
		DrugName:     request.DrugName,
		Dosage:       request.Dosage,
		DailyIntakes: request.DailyIntakes,
		StartDate:    startDate,
		EndDate:      endDate,
		Instructions: request.Instructions,
		Notes:        request.Notes,
	})
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusCreated, NewTherapyDto(created))
}

// ResolveTherapy looks up a therapy by its identity key
func (h *Handler) ResolveTherapy(ec echo.Context) error {
	ctx := ec.Request().Context()
	therapy, err := h.therapies.Resolve(ctx, ec.QueryParam("key"))
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewTherapyDto(therapy))
}

func (h *Handler) GetTherapy(ec echo.Context) error {
	ctx := ec.Request().Context()
	therapy, err := h.therapies.Get(ctx, ec.Param("therapyId"))
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewTherapyDto(therapy))
}

func (h *Handler) UpdateTherapy(ec echo.Context) error {
	ctx := ec.Request().Context()
	request := TherapyRequest{}
	if err := ec.Bind(&request); err != nil {
		return err
	}
	startDate, endDate, err := parseDates(request)
	if err != nil {
		return err
	}

	updated, err := h.therapies.Update(ctx, ec.Param("therapyId"), therapies.Update{
		DrugName:     request.DrugName,
		Dosage:       request.Dosage,
		DailyIntakes: request.DailyIntakes,
		StartDate:    startDate,
		EndDate:      endDate,
		Instructions: request.Instructions,
		Notes:        request.Notes,
		UpdatedBy:    request.DoctorId,
	})
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewTherapyDto(updated))
}

func (h *Handler) DeleteTherapy(ec echo.Context) error {
	ctx := ec.Request().Context()
	var deletedBy *string
	if doctorId := ec.QueryParam("doctorId"); doctorId != "" {
		deletedBy = &doctorId
	}

	if err := h.therapies.Delete(ctx, ec.Param("therapyId"), deletedBy); err != nil {
		return err
	}
	return ec.NoContent(http.StatusNoContent)
}
