package severity_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/adherence/readings"
	"github.com/tidepool-org/adherence/severity"
)

var _ = Describe("Classify", func() {
	DescribeTable("boundaries",
		func(value float64, ctx readings.MealContext, expected severity.Tier) {
			Expect(severity.Classify(value, ctx)).To(Equal(expected))
		},
		Entry("53 is danger", 53.0, readings.MealContextUnspecified, severity.Danger),
		Entry("54 is danger orange", 54.0, readings.MealContextUnspecified, severity.DangerOrange),
		Entry("69 is danger orange", 69.0, readings.MealContextUnspecified, severity.DangerOrange),
		Entry("70 is warning", 70.0, readings.MealContextUnspecified, severity.Warning),
		Entry("90 is warning", 90.0, readings.MealContextUnspecified, severity.Warning),
		Entry("91 fasting is none", 91.0, readings.MealContextFasting, severity.None),
		Entry("130 fasting is none", 130.0, readings.MealContextFasting, severity.None),
		Entry("131 fasting is warning", 131.0, readings.MealContextFasting, severity.Warning),
		Entry("150 before meal is warning", 150.0, readings.MealContextBeforeMeal, severity.Warning),
		Entry("151 fasting is danger orange", 151.0, readings.MealContextFasting, severity.DangerOrange),
		Entry("200 fasting is danger orange, the 151-200 range is inclusive", 200.0, readings.MealContextFasting, severity.DangerOrange),
		Entry("201 fasting is danger", 201.0, readings.MealContextFasting, severity.Danger),
		Entry("201 after meal is danger orange", 201.0, readings.MealContextAfterMeal, severity.DangerOrange),
		Entry("250 after meal is danger orange", 250.0, readings.MealContextAfterMeal, severity.DangerOrange),
		Entry("251 after meal is danger", 251.0, readings.MealContextAfterMeal, severity.Danger),
		Entry("180 after meal is none", 180.0, readings.MealContextAfterMeal, severity.None),
		Entry("181 after meal is warning", 181.0, readings.MealContextAfterMeal, severity.Warning),
		Entry("200 after meal is warning", 200.0, readings.MealContextAfterMeal, severity.Warning),
		Entry("160 after meal is none", 160.0, readings.MealContextAfterMeal, severity.None),
		Entry("181 unspecified is warning", 181.0, readings.MealContextUnspecified, severity.Warning),
		Entry("201 unspecified is danger orange", 201.0, readings.MealContextUnspecified, severity.DangerOrange),
		Entry("140 unspecified is none", 140.0, readings.MealContextUnspecified, severity.None),
		Entry("300 fasting is danger", 300.0, readings.MealContextFasting, severity.Danger),
	)

	DescribeTable("fractional values fall in the range of the integer they exceed",
		func(value float64, ctx readings.MealContext, expected severity.Tier) {
			Expect(severity.Classify(value, ctx)).To(Equal(expected))
		},
		Entry("53.9", 53.9, readings.MealContextFasting, severity.Danger),
		Entry("69.5", 69.5, readings.MealContextFasting, severity.DangerOrange),
		Entry("90.5", 90.5, readings.MealContextUnspecified, severity.Warning),
		Entry("130.5 fasting", 130.5, readings.MealContextFasting, severity.None),
		Entry("200.5 fasting", 200.5, readings.MealContextFasting, severity.Danger),
		Entry("200.5 after meal", 200.5, readings.MealContextAfterMeal, severity.Warning),
		Entry("250.5", 250.5, readings.MealContextAfterMeal, severity.Danger),
	)

	DescribeTable("invalid values are none",
		func(value float64) {
			Expect(severity.Classify(value, readings.MealContextFasting)).To(Equal(severity.None))
		},
		Entry("zero", 0.0),
		Entry("negative", -5.0),
		Entry("NaN", math.NaN()),
		Entry("positive infinity", math.Inf(1)),
		Entry("negative infinity", math.Inf(-1)),
	)

	It("ignores the two hours after meal flag", func() {
		yes := true
		no := false
		a := readings.Reading{Value: 190, MealContext: readings.MealContextAfterMeal, TwoHoursAfterMeal: &yes}
		b := readings.Reading{Value: 190, MealContext: readings.MealContextAfterMeal, TwoHoursAfterMeal: &no}
		Expect(severity.ClassifyReading(a)).To(Equal(severity.ClassifyReading(b)))
	})

	It("has a catch all rule last", func() {
		last := severity.Rules[len(severity.Rules)-1]
		Expect(last.Tier).To(Equal(severity.None))
		Expect(last.Applies(120, readings.MealContextFasting)).To(BeTrue())
	})

	It("reports the matching rule", func() {
		rule, ok := severity.Match(201, readings.MealContextBeforeMeal)
		Expect(ok).To(BeTrue())
		Expect(rule.Name).To(Equal("pre meal hyperglycemia"))
	})

	It("ranks tiers", func() {
		Expect(severity.Danger.Rank()).To(BeNumerically(">", severity.DangerOrange.Rank()))
		Expect(severity.DangerOrange.Rank()).To(BeNumerically(">", severity.Warning.Rank()))
		Expect(severity.Warning.Rank()).To(BeNumerically(">", severity.None.Rank()))
	})
})
