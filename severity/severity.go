// Package severity classifies glucose readings. The classification is an ordered table of
// rules evaluated top to bottom; the first matching rule decides the tier.
package severity

import (
	"math"
	"slices"

	"github.com/tidepool-org/adherence/readings"
)

type Tier string

const (
	None         Tier = "none"
	Warning      Tier = "warning"
	DangerOrange Tier = "dangerOrange"
	Danger       Tier = "danger"
)

// Rank orders tiers by severity
func (t Tier) Rank() int {
	switch t {
	case Danger:
		return 3
	case DangerOrange:
		return 2
	case Warning:
		return 1
	default:
		return 0
	}
}

type Rule struct {
	Name     string
	Tier     Tier
	Contexts []readings.MealContext
	Matches  func(value float64) bool
}

func (r Rule) Applies(value float64, ctx readings.MealContext) bool {
	if len(r.Contexts) > 0 && !slices.Contains(r.Contexts, ctx) {
		return false
	}
	return r.Matches(value)
}

var preMeal = []readings.MealContext{readings.MealContextFasting, readings.MealContextBeforeMeal}

// between matches mg/dL values of the closed integer range [low, high]. Fractional values
// are attributed to the range of the integer they exceed, so the ranges are contiguous.
func between(low, high float64) func(float64) bool {
	return func(value float64) bool {
		return value >= low && value < high+1
	}
}

// Rules is evaluated in order, the first applicable rule wins
var Rules = []Rule{
	{
		Name:    "out of range",
		Tier:    Danger,
		Matches: func(value float64) bool { return value < 54 || value > 250 },
	},
	{
		Name:     "pre meal hyperglycemia",
		Tier:     Danger,
		Contexts: preMeal,
		Matches:  func(value float64) bool { return value > 200 },
	},
	{
		Name:    "hypoglycemia",
		Tier:    DangerOrange,
		Matches: between(54, 69),
	},
	{
		Name:     "pre meal high",
		Tier:     DangerOrange,
		Contexts: preMeal,
		Matches:  between(151, 200),
	},
	{
		Name:     "post meal high",
		Tier:     DangerOrange,
		Contexts: []readings.MealContext{readings.MealContextAfterMeal},
		Matches:  between(201, 250),
	},
	{
		Name:     "unspecified high",
		Tier:     DangerOrange,
		Contexts: []readings.MealContext{readings.MealContextUnspecified},
		Matches:  between(201, 250),
	},
	{
		Name:    "low",
		Tier:    Warning,
		Matches: between(70, 90),
	},
	{
		Name:     "pre meal elevated",
		Tier:     Warning,
		Contexts: preMeal,
		Matches:  between(131, 150),
	},
	{
		Name:     "post meal elevated",
		Tier:     Warning,
		Contexts: []readings.MealContext{readings.MealContextAfterMeal},
		Matches:  between(181, 200),
	},
	{
		Name:     "unspecified elevated",
		Tier:     Warning,
		Contexts: []readings.MealContext{readings.MealContextUnspecified},
		Matches:  between(181, 200),
	},
	{
		Name:    "in range",
		Tier:    None,
		Matches: func(float64) bool { return true },
	},
}

// Classify returns the tier of a glucose value in mg/dL taken in the meal context.
// Values which are not finite positive numbers classify as None.
func Classify(value float64, ctx readings.MealContext) Tier {
	rule, ok := Match(value, ctx)
	if !ok {
		return None
	}
	return rule.Tier
}

// Match returns the first rule applicable to the reading
func Match(value float64, ctx readings.MealContext) (Rule, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return Rule{}, false
	}
	for _, rule := range Rules {
		if rule.Applies(value, ctx) {
			return rule, true
		}
	}
	return Rule{}, false
}

func ClassifyReading(reading readings.Reading) Tier {
	return Classify(reading.Value, reading.MealContext)
}
