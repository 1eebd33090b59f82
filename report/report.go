// Package report exports the alert panel of a doctor as a spreadsheet.
package report

import (
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/tidepool-org/adherence/alerts"
	"github.com/tidepool-org/adherence/pointer"
)

const (
	SheetNameSummary = "Summary"
	SheetNameAlerts  = "Alerts"

	TimeFormat = "2006-01-02 15:04"
)

var alertColumns = []string{
	"Patient",
	"Patient Id",
	"Kind",
	"Tier",
	"Title",
	"Message",
	"Time",
	"Drug",
	"Dosage",
	"Missing Days",
	"Glucose (mg/dL)",
	"Meal Context",
}

type Report struct {
	doctorName string
	evaluation alerts.Evaluation
	location   *time.Location
}

func NewReport(doctorName string, evaluation alerts.Evaluation, location *time.Location) Report {
	if location == nil {
		location = time.UTC
	}
	return Report{
		doctorName: doctorName,
		evaluation: evaluation,
		location:   location,
	}
}

func (r Report) Generate() (*xlsx.File, error) {
	report := xlsx.NewFile()

	components := []func(report *xlsx.File) error{
		r.addSummarySheet,
		r.addAlertsSheet,
	}
	for _, fn := range components {
		if err := fn(report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (r Report) addSummarySheet(report *xlsx.File) error {
	sh, err := report.AddSheet(SheetNameSummary)
	if err != nil {
		return err
	}

	sh.AddRow().AddCell().SetString("Alerts Summary")
	sh.AddRow()

	rows := [][2]string{
		{"Doctor", r.doctorName},
		{"Evaluated", r.evaluation.EvaluatedTime.In(r.location).Format(TimeFormat)},
		{"Indicator", string(r.evaluation.Color)},
		{"Alerts", strconv.Itoa(len(r.evaluation.Alerts))},
		{"Unavailable Patients", strconv.Itoa(r.evaluation.Failures)},
	}
	for _, values := range rows {
		currentRow := sh.AddRow()
		currentRow.AddCell().SetString(values[0])
		currentRow.AddCell().SetString(values[1])
	}
	sh.AddRow()

	currentRow := sh.AddRow()
	currentRow.AddCell().SetString("Tier ---")
	currentRow.AddCell().SetString("Count ---")
	for _, tier := range []alerts.Tier{alerts.TierDanger, alerts.TierDangerOrange, alerts.TierWarning, alerts.TierInfo} {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetString(string(tier))
		currentRow.AddCell().SetString(strconv.Itoa(r.countTier(tier)))
	}

	return nil
}

func (r Report) countTier(tier alerts.Tier) int {
	count := 0
	for _, alert := range r.evaluation.Alerts {
		if alert.Tier == tier {
			count++
		}
	}
	return count
}

func (r Report) addAlertsSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(SheetNameAlerts)
	if err != nil {
		return err
	}

	header := sh.AddRow()
	for _, column := range alertColumns {
		header.AddCell().SetString(column)
	}

	for _, alert := range r.evaluation.Alerts {
		currentRow := sh.AddRow()
		currentRow.AddCell().SetString(alert.PatientName)
		currentRow.AddCell().SetString(alert.PatientId)
		currentRow.AddCell().SetString(string(alert.Kind))
		currentRow.AddCell().SetString(string(alert.Tier))
		currentRow.AddCell().SetString(alert.Title)
		currentRow.AddCell().SetString(alert.Message)
		currentRow.AddCell().SetString(r.formatTime(alert.Time))
		currentRow.AddCell().SetString(pointer.ToString(alert.DrugName))
		currentRow.AddCell().SetString(pointer.ToString(alert.Dosage))
		currentRow.AddCell().SetString(formatInt(alert.MissingStreak))
		currentRow.AddCell().SetString(formatFloat(alert.Value))
		mealContext := ""
		if alert.MealContext != nil {
			mealContext = string(*alert.MealContext)
		}
		currentRow.AddCell().SetString(mealContext)
	}

	return nil
}

func (r Report) formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(r.location).Format(TimeFormat)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
