package test

import (
	"time"

	"github.com/onsi/gomega/gstruct"
	"github.com/onsi/gomega/types"

	. "github.com/onsi/gomega"

	"github.com/tidepool-org/adherence/calendar"
	intakesTest "github.com/tidepool-org/adherence/intakes/test"
	"github.com/tidepool-org/adherence/pointer"
	"github.com/tidepool-org/adherence/test"
	"github.com/tidepool-org/adherence/therapies"
)

var instructions = []string{"Dopo i pasti", "Lontano dai pasti", "Prima di coricarsi", "A stomaco vuoto"}

// RandomTherapy returns a continuous therapy which started in the last month
func RandomTherapy(doctorId string, patientId string) therapies.Therapy {
	today := calendar.Date(time.Now())
	return therapies.Therapy{
		DoctorId:     doctorId,
		DoctorName:   "Dr. " + test.Faker.Person().FirstName() + " " + test.Faker.Person().LastName(),
		PatientId:    patientId,
		DrugName:     intakesTest.RandomDrugName(),
		Dosage:       intakesTest.RandomDosage(),
		DailyIntakes: test.Faker.IntBetween(1, 3),
		StartDate:    calendar.AddDays(today, -test.Faker.IntBetween(0, 30)),
		Instructions: pointer.FromAny(test.Faker.RandomStringElement(instructions)),
		Notes:        pointer.FromAny(test.Faker.Lorem().Sentence(6)),
	}
}

func TherapyFieldsMatcher(therapy therapies.Therapy) types.GomegaMatcher {
	return gstruct.MatchFields(gstruct.IgnoreExtras, gstruct.Fields{
		"DoctorId":     Equal(therapy.DoctorId),
		"DoctorName":   Equal(therapy.DoctorName),
		"PatientId":    Equal(therapy.PatientId),
		"DrugName":     Equal(therapy.DrugName),
		"Dosage":       Equal(therapy.Dosage),
		"DailyIntakes": Equal(therapy.DailyIntakes),
		"StartDate":    BeTemporally("==", therapy.StartDate),
		"Instructions": Equal(therapy.Instructions),
		"Notes":        Equal(therapy.Notes),
		"ModifiedBy":   Equal(therapy.ModifiedBy),
	})
}
