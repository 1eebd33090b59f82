package test

import (
	"github.com/onsi/gomega/gstruct"
	"github.com/onsi/gomega/types"

	. "github.com/onsi/gomega"

	"github.com/tidepool-org/adherence/pointer"
	"github.com/tidepool-org/adherence/readings"
	"github.com/tidepool-org/adherence/test"
)

var mealContexts = []string{
	string(readings.MealContextFasting),
	string(readings.MealContextBeforeMeal),
	string(readings.MealContextAfterMeal),
	string(readings.MealContextUnspecified),
}

func RandomReading(patientId string) readings.Reading {
	mealContext := readings.MealContext(test.Faker.RandomStringElement(mealContexts))
	reading := readings.Reading{
		PatientId:   patientId,
		Value:       float64(test.Faker.IntBetween(40, 300)),
		Time:        test.RecentTime(600),
		MealContext: mealContext,
		Note:        pointer.FromAny(test.Faker.Lorem().Sentence(5)),
	}
	if mealContext == readings.MealContextAfterMeal {
		reading.TwoHoursAfterMeal = pointer.FromAny(test.Faker.Bool())
	}
	return reading
}

func ReadingFieldsMatcher(reading readings.Reading) types.GomegaMatcher {
	return gstruct.MatchFields(gstruct.IgnoreExtras, gstruct.Fields{
		"PatientId":         Equal(reading.PatientId),
		"Value":             Equal(reading.Value),
		"Time":              BeTemporally("==", reading.Time),
		"MealContext":       Equal(reading.MealContext),
		"TwoHoursAfterMeal": Equal(reading.TwoHoursAfterMeal),
		"Note":              Equal(reading.Note),
	})
}
