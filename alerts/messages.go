package alerts

import (
	"fmt"

	"github.com/tidepool-org/adherence/adherence"
	"github.com/tidepool-org/adherence/patients"
	"github.com/tidepool-org/adherence/pointer"
	"github.com/tidepool-org/adherence/readings"
	"github.com/tidepool-org/adherence/severity"
	"github.com/tidepool-org/adherence/therapies"
)

var mealContextDescriptions = map[readings.MealContext]string{
	readings.MealContextFasting:     "fasting",
	readings.MealContextBeforeMeal:  "before meal",
	readings.MealContextAfterMeal:   "after meal",
	readings.MealContextUnspecified: "unspecified meal context",
}

func newAlert(kind Kind, tier Tier, patient *patients.Patient) Alert {
	return Alert{
		Kind:        kind,
		Tier:        tier,
		PatientId:   patient.UserId,
		PatientName: patient.FullName,
	}
}

func missedDoses(patient *patients.Patient, therapy therapies.Therapy, streak adherence.Streak) Alert {
	alert := newAlert(KindAdherence, TierDanger, patient)
	alert.Title = fmt.Sprintf("Missed doses: %s", therapy.DrugName)
	period := "bounded therapy"
	if streak.Continuous {
		period = "continuous therapy"
	}
	days := "days"
	if streak.Missing == 1 {
		days = "day"
	}
	alert.Message = fmt.Sprintf("%s has not logged %s %s for %d consecutive %s (%s)",
		patient.FullName, therapy.DrugName, therapy.Dosage, streak.Missing, days, period)
	if therapy.Id != nil {
		alert.TherapyId = pointer.FromAny(therapy.Id.Hex())
	}
	alert.DrugName = pointer.FromAny(therapy.DrugName)
	alert.Dosage = pointer.FromAny(therapy.Dosage)
	alert.MissingStreak = pointer.FromAny(streak.Missing)
	alert.Continuous = pointer.FromAny(streak.Continuous)
	return alert
}

var glycemiaTiers = map[severity.Tier]Tier{
	severity.Warning:      TierWarning,
	severity.DangerOrange: TierDangerOrange,
	severity.Danger:       TierDanger,
}

func glycemia(patient *patients.Patient, reading readings.Reading, tier severity.Tier) Alert {
	alert := newAlert(KindGlycemia, glycemiaTiers[tier], patient)
	alert.Title = fmt.Sprintf("Glycemia %g mg/dL", reading.Value)
	description, ok := mealContextDescriptions[reading.MealContext]
	if !ok {
		description = string(reading.MealContext)
	}
	alert.Message = fmt.Sprintf("%s logged a glucose value of %g mg/dL (%s)", patient.FullName, reading.Value, description)
	alert.Time = pointer.FromAny(reading.Time)
	alert.Value = pointer.FromAny(reading.Value)
	alert.MealContext = pointer.FromAny(reading.MealContext)
	return alert
}

func unavailable(patient *patients.Patient) Alert {
	alert := newAlert(KindUnavailable, TierInfo, patient)
	alert.Title = "Alerts unavailable"
	alert.Message = fmt.Sprintf("The alerts of %s couldn't be evaluated", patient.FullName)
	return alert
}

func doseReminder(patient *patients.Patient, therapy therapies.Therapy, completeness adherence.Completeness) Alert {
	alert := newAlert(KindReminder, TierDanger, patient)
	alert.Title = fmt.Sprintf("Reminder: %s", therapy.DrugName)
	alert.Message = adherence.ReminderMessage(therapy, completeness)
	if therapy.Id != nil {
		alert.TherapyId = pointer.FromAny(therapy.Id.Hex())
	}
	alert.DrugName = pointer.FromAny(therapy.DrugName)
	alert.Dosage = pointer.FromAny(therapy.Dosage)
	alert.Remaining = pointer.FromAny(completeness.Remaining())
	alert.Required = pointer.FromAny(completeness.Required)
	return alert
}

func intakeReminder(patient *patients.Patient) Alert {
	alert := newAlert(KindReminder, TierInfo, patient)
	alert.Title = "Daily intakes reminder"
	alert.Message = "Remember to log the drugs you took today."
	return alert
}

func glucoseReminder(patient *patients.Patient) Alert {
	alert := newAlert(KindReminder, TierWarning, patient)
	alert.Title = "Glucose measurement reminder"
	alert.Message = "You haven't logged any glucose measurement today."
	return alert
}
