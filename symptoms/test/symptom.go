package test

import (
	"time"

	"github.com/onsi/gomega/gstruct"
	"github.com/onsi/gomega/types"

	. "github.com/onsi/gomega"

	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/pointer"
	"github.com/tidepool-org/adherence/symptoms"
	"github.com/tidepool-org/adherence/test"
)

var symptomTypes = []string{
	string(symptoms.TypeSymptom),
	string(symptoms.TypePathology),
	string(symptoms.TypeTreatment),
}

var frequencies = []string{
	string(symptoms.FrequencyOccasional),
	string(symptoms.FrequencyFrequent),
	string(symptoms.FrequencyDaily),
	string(symptoms.FrequencyContinuous),
}

// RandomSymptom returns an ongoing entry which started in the last month
func RandomSymptom(patientId string) symptoms.Symptom {
	symptomType := symptoms.Type(test.Faker.RandomStringElement(symptomTypes))
	symptom := symptoms.Symptom{
		PatientId:   patientId,
		Type:        symptomType,
		Description: test.Faker.Lorem().Sentence(3),
		StartDate:   calendar.AddDays(calendar.Date(time.Now()), -test.Faker.IntBetween(1, 30)),
		Note:        pointer.FromAny(test.Faker.Lorem().Sentence(5)),
	}
	if symptomType == symptoms.TypeSymptom {
		symptom.Frequency = pointer.FromAny(symptoms.Frequency(test.Faker.RandomStringElement(frequencies)))
	}
	return symptom
}

func SymptomFieldsMatcher(symptom symptoms.Symptom) types.GomegaMatcher {
	return gstruct.MatchFields(gstruct.IgnoreExtras, gstruct.Fields{
		"PatientId":   Equal(symptom.PatientId),
		"Type":        Equal(symptom.Type),
		"Description": Equal(symptom.Description),
		"StartDate":   BeTemporally("==", symptom.StartDate),
		"Frequency":   Equal(symptom.Frequency),
		"Note":        Equal(symptom.Note),
	})
}
