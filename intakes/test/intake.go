package test

import (
	"github.com/onsi/gomega/gstruct"
	"github.com/onsi/gomega/types"

	. "github.com/onsi/gomega"

	"github.com/tidepool-org/adherence/intakes"
	"github.com/tidepool-org/adherence/pointer"
	"github.com/tidepool-org/adherence/test"
)

var drugs = []string{"Metformina", "Insulina glargine", "Gliclazide", "Sitagliptin", "Ramipril"}

func RandomDrugName() string {
	return test.Faker.RandomStringElement(drugs)
}

func RandomDosage() string {
	return test.Faker.RandomStringElement([]string{"500mg", "850 mg", "10 UI", "1 compressa", "5mg"})
}

func RandomIntake(patientId string) intakes.Intake {
	return intakes.Intake{
		PatientId: patientId,
		DrugName:  RandomDrugName(),
		Dosage:    RandomDosage(),
		Time:      test.RecentTime(600),
		Note:      pointer.FromAny(test.Faker.Lorem().Sentence(4)),
	}
}

func IntakeFieldsMatcher(intake intakes.Intake) types.GomegaMatcher {
	return gstruct.MatchFields(gstruct.IgnoreExtras, gstruct.Fields{
		"PatientId": Equal(intake.PatientId),
		"DrugName":  Equal(intake.DrugName),
		"Dosage":    Equal(intake.Dosage),
		"Time":      BeTemporally("==", intake.Time),
		"TherapyId": Equal(intake.TherapyId),
		"Note":      Equal(intake.Note),
	})
}
