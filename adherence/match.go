package adherence

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tidepool-org/adherence/intakes"
	"github.com/tidepool-org/adherence/therapies"
)

// Normalize folds a drug name or a dosage for comparison: surrounding and internal
// whitespace is removed and the result is lower cased, e.g. " 500 MG" becomes "500mg".
func Normalize(value string) string {
	return cases.Lower(language.Und).String(strings.Join(strings.Fields(value), ""))
}

// Matches returns true if the intake counts towards the therapy. An intake explicitly
// linked to a therapy matches only that therapy.
func Matches(intake intakes.Intake, therapy therapies.Therapy) bool {
	if intake.TherapyId != nil {
		return therapy.Id != nil && *intake.TherapyId == *therapy.Id
	}
	return Normalize(intake.DrugName) == Normalize(therapy.DrugName) &&
		Normalize(intake.Dosage) == Normalize(therapy.Dosage)
}

// CountMatching returns the number of intakes which match the therapy
func CountMatching(list []*intakes.Intake, therapy therapies.Therapy) int {
	count := 0
	for _, intake := range list {
		if intake != nil && Matches(*intake, therapy) {
			count++
		}
	}
	return count
}
