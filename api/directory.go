package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tidepool-org/adherence/doctors"
	"github.com/tidepool-org/adherence/patients"
)

func (h *Handler) ListDoctors(ec echo.Context) error {
	ctx := ec.Request().Context()
	page, err := pagination(ec)
	if err != nil {
		return err
	}

	list, err := h.doctors.List(ctx, page)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, list)
}

func (h *Handler) GetDoctor(ec echo.Context) error {
	ctx := ec.Request().Context()
	doctor, err := h.doctors.Get(ctx, ec.Param("doctorId"))
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, doctor)
}

func (h *Handler) CreateDoctor(ec echo.Context) error {
	ctx := ec.Request().Context()
	doctor := doctors.Doctor{}
	if err := ec.Bind(&doctor); err != nil {
		return err
	}
	doctor.Id = nil

	created, err := h.doctors.Create(ctx, doctor)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusCreated, created)
}

func (h *Handler) ListPatients(ec echo.Context) error {
	ctx := ec.Request().Context()
	page, err := pagination(ec)
	if err != nil {
		return err
	}

	filter := patients.Filter{}
	if doctorId := ec.QueryParam("doctorId"); doctorId != "" {
		filter.DoctorId = &doctorId
	}
	if search := ec.QueryParam("search"); search != "" {
		filter.Search = &search
	}

	list, err := h.patients.List(ctx, filter, page)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, list)
}

func (h *Handler) GetPatient(ec echo.Context) error {
	ctx := ec.Request().Context()
	patient, err := h.patients.Get(ctx, ec.Param("patientId"))
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, patient)
}

func (h *Handler) CreatePatient(ec echo.Context) error {
	ctx := ec.Request().Context()
	patient := patients.Patient{}
	if err := ec.Bind(&patient); err != nil {
		return err
	}
	patient.Id = nil

	created, err := h.patients.Create(ctx, patient)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusCreated, created)
}

// FollowPatient adds the doctor to the followers of the patient. With primary=true the doctor
// also becomes the primary doctor of the patient.
func (h *Handler) FollowPatient(ec echo.Context) error {
	ctx := ec.Request().Context()
	primary := false
	if err := echo.QueryParamsBinder(ec).Bool("primary", &primary).BindError(); err != nil {
		return err
	}

	patient, err := h.patients.Follow(ctx, ec.Param("patientId"), ec.Param("doctorId"), primary)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, patient)
}

func (h *Handler) UnfollowPatient(ec echo.Context) error {
	ctx := ec.Request().Context()
	patient, err := h.patients.Unfollow(ctx, ec.Param("patientId"), ec.Param("doctorId"))
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, patient)
}

// UpdateClinicalData replaces the clinical data of the patient on behalf of one of their doctors
func (h *Handler) UpdateClinicalData(ec echo.Context) error {
	ctx := ec.Request().Context()
	data := patients.ClinicalData{}
	if err := ec.Bind(&data); err != nil {
		return err
	}

	patient, err := h.patients.UpdateClinicalData(ctx, ec.Param("patientId"), ec.Param("doctorId"), data)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, patient)
}
